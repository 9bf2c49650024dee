// Package config provides configuration for signalctl.
//
// Configuration is read from signalctl.json and then overridden by
// SIGNALCTL_* environment variables.
//
// # Configuration File Structure
//
//	{
//	  "addr": ":9090",
//	  "logLevel": "info",
//	  "logFormat": "text",
//	  "shutdownTimeout": "10s",
//	  "store": {
//	    "driver": "sqlite",
//	    "path": "signals.db"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "signal"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "pretty": true
//	  }
//	}
//
// # Environment
//
//	SIGNALCTL_ADDR, SIGNALCTL_LOG_LEVEL, SIGNALCTL_LOG_FORMAT,
//	SIGNALCTL_SHUTDOWN_TIMEOUT, SIGNALCTL_STORE_DRIVER, SIGNALCTL_STORE_PATH,
//	SIGNALCTL_STORE_BUCKET, SIGNALCTL_STORE_PREFIX, SIGNALCTL_STORE_REGION,
//	SIGNALCTL_METRICS_ENABLED, SIGNALCTL_METRICS_NAMESPACE,
//	SIGNALCTL_TRACING_ENABLED, SIGNALCTL_TRACING_PRETTY
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Listening on", cfg.Addr)
package config

// Package config provides configuration parsing for searchroute.
//
// The configuration is stored in searchroute.json (or searchroute.yaml)
// at the project root. This package handles loading, saving, defaults and
// validation.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "localhost",
//	    "port": 3000,
//	    "canonicalRedirect": true
//	  },
//	  "routing": {
//	    "anchor": "search",
//	    "windowTitle": "Shop",
//	    "categories": {
//	      "Cameras": "Cameras & Camcorders"
//	    },
//	    "hitsPerPage": {"accepted": ["20", "40", "80"], "default": "20"}
//	  },
//	  "history": {
//	    "mode": "push",
//	    "writeDelay": "400ms"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    return err
//	}
//	router, err := cfg.Router()
package config

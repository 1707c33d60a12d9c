/*
Package nodeserver provides an embeddable, express-style HTTP application
framework for Go.

Routes are declared with path patterns (":name" parameters and "*"
wildcards), requests flow through a continuation-passing middleware
chain, and handlers reply through a Response object whose single send
is delivered to whichever transport hosts the server.

Features

  - Express-style routing: ":param" and "*" patterns compiled to matchers
  - Middleware chain: continuation-passing, with short-circuit on send
  - Transport independence: net/http (with optional h2c) and fasthttp adapters
  - Built-in middleware: body parsing, CORS, rate limiting, request ids, logging
  - Sessions: pluggable stores with a TTL-based in-memory default
  - Validation: declarative JSON body schemas
  - Realtime: WebSocket hub with rooms, Server-Sent Events broker
  - Observability: Prometheus metrics with an injected registry

Quick Start

Basic usage example:

	package main

	import (
	    "github.com/nodego/node-server/app"
	    "github.com/nodego/node-server/config"
	    "github.com/nodego/node-server/core/http"
	)

	func main() {
	    cfg := config.New()
	    application := app.New(cfg)

	    srv := application.Server()
	    srv.Get("/hello/:name", func(req *http.Request, res *http.Response) {
	        res.JSON(map[string]string{"hello": req.Params["name"]})
	    })

	    application.Run()
	}

Modules

The framework is organized into several modules:

  - app: Application lifecycle management
  - config: Configuration loading (YAML, .env, environment)
  - logging: Structured logging with rotation
  - core: Server dispatch (middleware chain plus route table)
  - core/http: Request/Response model
  - core/router: Pattern compilation and matching
  - core/middleware: Chain execution and built-in middleware
  - core/jsonval: JSON value access for bodies
  - core/session: Session middleware and stores
  - core/validation: Request body schemas
  - core/websocket: Connection hub and rooms
  - core/sse: Server-Sent Events broker
  - core/observability: Prometheus metrics
  - core/transport: net/http and fasthttp adapters
*/
package nodeserver

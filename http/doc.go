// Package http serves the image catalog over HTTP.
//
// Two routes exist. GET / renders an HTML table of the JPEG files in the
// store, capped at a configurable count. Every other request falls through
// to the view handler, which streams /view/<path> as image/jpeg and answers
// anything else with a plain-text 404 of the form "URI not found: <uri>".
//
// # Dispatching
//
// A Dispatcher sits between net/http and the router so that requests are
// handled one at a time on the goroutine that calls HandleClient:
//
//	handler := http.NewHandler(&http.HandlerConfig{MaxNumFiles: 100}, catalog)
//	d := http.NewDispatcher(handler.Router(), 8)
//	srv := &nethttp.Server{Handler: d}
//	go srv.Serve(ln)
//
//	for {
//		d.HandleClient()
//	}
//
// Serve wraps that loop and returns when its context is canceled.
package http

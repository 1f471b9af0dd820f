// Package server serves the catalog over HTTP with gofiber.
//
// Routes:
//
//	GET  /                 HTML page; filters come from the query string
//	GET  /api/reports      JSON view with an ETag
//	GET  /export/:format   the view as text, markdown, json or html
//	POST /api/reload       reloads the catalog
//	GET  /healthz          catalog status
//
// The lang and theme query parameters are stored in cookies and read back
// on later requests.
package server

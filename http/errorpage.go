package http

import "net/http"

const notFoundPrefix = "URI not found: "

func writeNotFound(w http.ResponseWriter, uri string) {
	send(w, http.StatusNotFound, "text/plain; charset=utf-8", notFoundPrefix+uri)
}

package review

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"
)

//go:embed page/*
var page embed.FS

func mustSub(parentFS fs.FS, prefix string) fs.FS {
	subFs, err := fs.Sub(parentFS, prefix)
	if err != nil {
		panic(err)
	}

	return subFs
}

// ConstructRouter serves the submission review page. The page talks to the
// v1 API for data and actions; http.FileServer serves index.html on the root
// path.
func ConstructRouter() http.Handler {
	r := mux.NewRouter()
	r.PathPrefix("/").Handler(http.FileServer(http.FS(mustSub(page, "page")))).Methods("GET")

	return r
}

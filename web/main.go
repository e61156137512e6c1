package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strconv"

	"github.com/df07/go-recursive-raytracer/web/server"
	"gocloud.dev/blob"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	bucketURL := flag.String("bucket", "mem://", "Bucket URL that renders are stored in")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	bucket, err := blob.OpenBucket(context.Background(), *bucketURL)
	if err != nil {
		logger.Error("open bucket", "url", *bucketURL, "error", err)
		os.Exit(1)
	}
	defer bucket.Close()

	webServer := server.NewServer(*port, bucket, logger)
	logger.Info("recursive raytracer web server", "url", "http://localhost:"+strconv.Itoa(*port)+"/api/scenes")
	if err := webServer.Start(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

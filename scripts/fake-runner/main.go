// Command fake-runner serves a stand-in for the remote JMeter test runner so
// remote runs and listings can be tried without the real service.
package main

import (
	"flag"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/wesleyorama2/campload/internal/runnertest"
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	tests := flag.String("tests", "Booking.jmx,Search.jmx", "Comma separated test plans to list")
	asJSON := flag.Bool("json", false, "Answer listings with JSON")
	flag.Parse()

	runner := runnertest.New(strings.Split(*tests, ",")...)
	runner.UseJSON(*asJSON)

	server := &http.Server{
		Addr:              *addr,
		Handler:           runner,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
	}

	log.Printf("Starting fake test runner on %s", *addr)
	log.Printf("Endpoints: %s, %s, %s", runnertest.SubmitPath, runnertest.StatusPath, runnertest.ListingPath)

	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}

// Command probe checks a running prediction service from the outside: it
// requests the demo endpoint and verifies the response shape. Intended as a
// post-deploy smoke test next to deploycheck, which exercises the model file
// directly.
package main

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

func main() {
	url := flag.String("url", "http://localhost:5000/", "prediction endpoint to probe")
	timeout := flag.Duration("timeout", 5*time.Second, "request timeout")
	flag.Parse()

	client := resty.New()
	client.SetTimeout(*timeout)

	resp, err := client.R().Get(*url)
	if err != nil {
		log.Error().Err(err).Str("url", *url).Msg("probe request failed")
		os.Exit(1)
	}

	if resp.StatusCode() != 200 {
		log.Error().
			Int("status", resp.StatusCode()).
			Str("body", resp.String()).
			Msg("unexpected status")
		os.Exit(1)
	}

	body := resp.String()
	if !strings.HasPrefix(body, "Prediction: ") ||
		!strings.Contains(body, "\n Error: ") ||
		!strings.Contains(body, "n.b. model suboptimal to save time") {
		log.Error().Str("body", body).Msg("response does not match the expected template")
		os.Exit(1)
	}

	log.Info().
		Str("url", *url).
		Dur("latency", resp.Time()).
		Msg("probe ok")
}

// Command deploycheck is a one-shot deploy sanity check: it loads the model
// the service serves, runs a batch of predictions over random inputs and
// prints them. Any failure terminates with a non-zero exit status.
package main

import (
	"fmt"

	"modelserve/internal/cfg"
	"modelserve/internal/friedman"
	"modelserve/internal/model"

	"github.com/rs/zerolog/log"
)

func main() {
	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	reg, err := model.Load(c.ModelPath)
	if err != nil {
		log.Fatal().Err(err).Str("model_path", c.ModelPath).Msg("model load failed")
	}

	sampler := friedman.NewSampler()
	rows := sampler.Matrix(c.DeployRows, friedman.FeatureCount)

	preds, err := reg.PredictBatch(rows)
	if err != nil {
		log.Fatal().Err(err).Msg("batch prediction failed")
	}

	fmt.Println(preds)
}

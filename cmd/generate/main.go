package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/averyholdt/socialforge/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	textFlag := flag.String("text", "", "prompt text (reads stdin when empty)")
	modeFlag := flag.String("mode", "full", "run mode: full, post, video, analyze")
	seedFlag := flag.Int64("seed", 0, "random seed (0 = derive from clock)")
	platformFlag := flag.String("platform", "", "explicit target platform hint")
	formatFlag := flag.String("format", "json", "output format: json or markdown")
	weightsFlag := flag.String("weights", "", "path to YAML scoring-weights override")
	flag.Parse()

	text := *textFlag
	if strings.TrimSpace(text) == "" {
		blob, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("read stdin: %v", err)
		}
		text = string(blob)
	}

	weights := pipeline.DefaultWeights()
	if *weightsFlag != "" {
		w, err := pipeline.LoadWeights(*weightsFlag)
		if err != nil {
			log.Fatalf("load weights (%s): %v", *weightsFlag, err)
		}
		weights = w
	}

	pipe, err := pipeline.New(pipeline.Config{Weights: weights})
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	result, err := pipe.Run(ctx, pipeline.Request{
		Text:               text,
		Mode:               pipeline.RunMode(*modeFlag),
		Seed:               *seedFlag,
		Context:            pipeline.ContextHints{Platform: pipeline.Platform(*platformFlag)},
		IncludeVisuals:     true,
		IncludeAudio:       true,
		IncludeInteractive: true,
	})
	if err != nil {
		log.Fatalf("run failed at stage %s: %v", pipeline.StageNameFromError(err), err)
	}

	env := pipeline.BuildResponse(result)
	switch *formatFlag {
	case "markdown":
		fmt.Println(env.ReportMarkdown)
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(env); err != nil {
			log.Fatal(err)
		}
	}
}

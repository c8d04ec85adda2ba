package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/averyholdt/socialforge/internal/render"
)

func main() {
	inFlag := flag.String("in", "", "input report file, markdown or JSON envelope (reads stdin when empty)")
	outFlag := flag.String("out", "report.pdf", "output PDF path")
	flag.Parse()

	var blob []byte
	var err error
	if *inFlag == "" {
		blob, err = io.ReadAll(os.Stdin)
	} else {
		blob, err = os.ReadFile(*inFlag)
	}
	if err != nil {
		log.Fatalf("read input: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	renderer := render.NewChromiumPDFRenderer()
	pdf, err := renderer.Render(ctx, string(blob))
	if err != nil {
		log.Fatalf("render: %v", err)
	}
	if err := os.WriteFile(*outFlag, pdf, 0o644); err != nil {
		log.Fatalf("write %s: %v", *outFlag, err)
	}
	log.Printf("wrote %s (%d bytes)", *outFlag, len(pdf))
}

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/soullift/soul-hug/backend/internal/audio"
	"github.com/soullift/soul-hug/backend/internal/client"
	"github.com/soullift/soul-hug/backend/internal/service/music"
	"github.com/soullift/soul-hug/backend/internal/wizard"
)

// hugflow drives the full authoring flow against a running backend:
// intention, reflection, expression, then audio compilation, writing the
// final artifact to disk.
func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	defaultURL := os.Getenv("SOUL_HUG_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}

	baseURL := flag.String("url", defaultURL, "backend base URL")
	recipient := flag.String("recipient", "Sam", "recipient name")
	anchor := flag.String("anchor", "appreciated", "anchor feeling")
	tone := flag.String("tone", "warm", "message tone")
	trackID := flag.String("track", "gentle-piano", "background track id (empty for none)")
	outDir := flag.String("out", ".", "output directory for the final artifact")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	api := client.New(*baseURL)
	ctrl := wizard.NewController(api, api)

	if err := ctrl.Start(ctx, ""); err != nil {
		log.Fatalf("start failed: %v", err)
	}
	session := ctrl.Session()
	log.Printf("session %s created", session.SessionID)

	if err := ctrl.SubmitIntention(ctx, wizard.AnchorData{
		RecipientName: *recipient,
		Anchor:        *anchor,
		Tone:          *tone,
	}); err != nil {
		log.Fatalf("intention failed: %v", err)
	}
	session = ctrl.Session()
	log.Printf("received %d prompts (degraded=%v)", len(session.AIGeneratedPrompts), ctrl.LastDegraded())

	for i, prompt := range session.AIGeneratedPrompts {
		if i >= 2 {
			break
		}
		ing, err := ctrl.AddIngredient(ctx, prompt.Text, "They helped me move last winter without being asked.")
		if err != nil {
			log.Fatalf("add ingredient failed: %v", err)
		}
		log.Printf("ingredient %s added for prompt %q", ing.ID, prompt.Text)
	}

	if err := ctrl.Continue(); err != nil {
		log.Fatalf("continue failed: %v", err)
	}
	if err := ctrl.Weave(ctx); err != nil {
		log.Fatalf("weave failed: %v", err)
	}
	log.Printf("woven message (%d chars, degraded=%v)", len(ctrl.Draft()), ctrl.LastDegraded())

	if err := ctrl.Stitch(ctx); err != nil {
		log.Fatalf("stitch failed: %v", err)
	}
	if err := ctrl.ContinueToAudio(ctx); err != nil {
		log.Fatalf("audio stage failed: %v", err)
	}

	// Audio compilation: synthesize the message, mix with the selected
	// track, pick a cover, compile.
	synth := audio.NewSynthesizer([]audio.Voice{{Name: "Samantha"}, {Name: "David"}})
	utterance, err := synth.Speak(ctrl.Session().FinalMessage, *tone, "female")
	if err != nil {
		log.Fatalf("synthesis failed: %v", err)
	}
	utterance.Finish()

	pipeline := audio.NewPipeline(api.FetchMusic)
	pipeline.SetSynthesized(utterance.Audio())
	if *trackID != "" {
		track, ok := music.FindTrack(*trackID)
		if !ok {
			log.Fatalf("unknown track %q", *trackID)
		}
		if err := pipeline.SelectTrack(track.ID, track.Category == music.TierPremium); err != nil {
			log.Fatalf("track selection failed: %v", err)
		}
	}
	if err := pipeline.CoverChoice.SelectCatalog("sunset-heart"); err != nil {
		log.Fatalf("cover selection failed: %v", err)
	}

	final, err := pipeline.Compile(ctx)
	if err != nil {
		log.Fatalf("compile failed: %v", err)
	}

	outPath := filepath.Join(*outDir, "soul-hug-"+ctrl.Session().SessionID+".wav")
	if err := os.WriteFile(outPath, final.Audio, 0o644); err != nil {
		log.Fatalf("failed to write artifact: %v", err)
	}
	log.Printf("final hug written to %s (mixed=%v, cover=%s)", outPath, final.Mixed, final.Cover.CatalogID)
}

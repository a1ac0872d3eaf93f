package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kakilabs/kaki-backend/cmd/config"
	"github.com/kakilabs/kaki-backend/thirdparty/elevenlabs"
)

// voiceprobe is a standalone diagnostic for the ElevenLabs setup. It is
// not part of the server: it verifies the API key, lists the account's
// agents, and fetches the configured agent ids, printing plain text so
// a developer can eyeball what the voice path will see.
func main() {
	cfg := config.Load()

	if cfg.Voice.APIKey == "" {
		fmt.Println("ELEVENLABS_API_KEY is not set; nothing to probe")
		os.Exit(1)
	}

	client := elevenlabs.NewClient(cfg.Voice)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("Probing ElevenLabs API")
	fmt.Println("======================")

	fmt.Println("\n1. Verifying API key...")
	sub, err := client.VerifyAuth(ctx)
	if err != nil {
		fmt.Printf("   FAILED: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("   OK (tier: %s, status: %s)\n", sub.Tier, sub.Status)

	fmt.Println("\n2. Listing available agents...")
	agents, err := client.ListAgents(ctx)
	if err != nil {
		fmt.Printf("   FAILED: %v\n", err)
	} else if len(agents) == 0 {
		fmt.Println("   no agents on this account")
	} else {
		for _, agent := range agents {
			fmt.Printf("   - %s (%s)\n", agent.Name, agent.AgentID)
		}
	}

	fmt.Println("\n3. Checking configured agents...")
	checkAgent(ctx, client, "main", cfg.Voice.AgentID)
	checkAgent(ctx, client, "companion", cfg.Voice.CompanionAgentID)

	fmt.Println("\nDone.")
}

func checkAgent(ctx context.Context, client *elevenlabs.Client, label, agentID string) {
	if agentID == "" {
		fmt.Printf("   %s agent: not configured\n", label)
		return
	}
	agent, err := client.GetAgent(ctx, agentID)
	if err != nil {
		fmt.Printf("   %s agent %s: FAILED: %v\n", label, agentID, err)
		return
	}
	fmt.Printf("   %s agent %s: OK (%s)\n", label, agentID, agent.Name)
}

package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/tradebook/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd holds the flags for the 'assist' subcommand.
type assistCmd struct {
	model string
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `tbk assist [question]

  Starts an interactive chat about the portfolio. The assistant is given
  the current holdings report as context. Type 'bye' to exit.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.model, "model", "gemini-2.5-flash", "Gemini model answering the session")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := OpenLedger()
	if err != nil {
		return fail(err)
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return fail(fmt.Errorf("initializing Gemini client: %w", err))
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: assistInstruction +
			"\n\nCurrent portfolio:\n\n" + renderer.Holdings(ledger.Snapshot())}}},
	}
	chat, err := client.Chats.Create(ctx, c.model, config, nil)
	if err != nil {
		return fail(err)
	}

	if f.NArg() > 0 {
		if status := ask(ctx, chat, strings.Join(f.Args(), " ")); status != subcommands.ExitSuccess {
			return status
		}
	}

	fmt.Println("Welcome to tbk assist. Type 'bye' to exit.")
	r := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("assist> ")
		input, err := r.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return subcommands.ExitSuccess
			}
			return fail(err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "bye" {
			return subcommands.ExitSuccess
		}
		if status := ask(ctx, chat, input); status != subcommands.ExitSuccess {
			return status
		}
	}
}

func ask(ctx context.Context, chat *genai.Chat, question string) subcommands.ExitStatus {
	resp, err := chat.Send(ctx, &genai.Part{Text: question})
	if err != nil {
		return fail(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return fail(fmt.Errorf("no response from the assistant"))
	}
	printMarkdown(resp.Candidates[0].Content.Parts[0].Text)
	return subcommands.ExitSuccess
}

const assistInstruction = `You are a trading assistant for a personal portfolio of equities and
options. Answer questions about the positions below, concisely and in markdown.
You cannot place orders.`

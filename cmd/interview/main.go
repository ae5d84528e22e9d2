// Command interview runs an interview session in the terminal: pick a
// difficulty, name a topic, answer questions. Type "skip" to skip a
// question and "exit", "quit" or "stop" to finish.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/kairos-interview/backend/internal/domain/interview"
	"github.com/kairos-interview/backend/internal/gateway"
	"github.com/kairos-interview/backend/internal/infrastructure/config"
	"github.com/kairos-interview/backend/internal/prompt"
	"github.com/kairos-interview/backend/internal/session"
	"github.com/kairos-interview/backend/internal/speech"
	"github.com/kairos-interview/backend/internal/store"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	ts, err := store.NewSQLite(cfg.SQLitePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not open the transcript database: %v\n", err)
		os.Exit(1)
	}
	defer ts.Close()

	var gw gateway.Gateway
	if cfg.LLMProvider == "gemini" {
		gw = gateway.NewGeminiGateway(cfg.GeminiAPIKey, cfg.LLMModel)
	} else {
		gw = gateway.NewOllamaGateway(cfg.LLMURL, cfg.LLMModel, cfg.LLMTimeout)
	}

	reader := bufio.NewReader(os.Stdin)
	mode := chooseDifficulty(reader)
	topic := chooseTopic(reader)

	sess := interview.NewSession(topic, mode)
	builder := prompt.NewBuilder(sess.Topic)
	engine := session.NewEngine(sess, builder, gw, ts, logger)

	fmt.Printf("\nStarting a %s interview on %s. Type 'skip' to skip, 'exit' to finish.\n", mode, topic)

	out := &consoleOutput{
		w:     os.Stdout,
		voice: &speech.ConsoleSynthesizer{W: os.Stdout},
	}
	if err := engine.Run(context.Background(), &consoleInput{reader: reader}, out); err != nil {
		fmt.Fprintf(os.Stderr, "the interview ended with an error: %v\n", err)
		os.Exit(1)
	}
}

func chooseDifficulty(reader *bufio.Reader) interview.DifficultyMode {
	for {
		fmt.Println("Choose a difficulty:")
		fmt.Println("  1. Easy")
		fmt.Println("  2. Medium")
		fmt.Println("  3. Hard")
		fmt.Println("  4. Mixed")
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			return interview.ModeMedium
		}
		switch strings.TrimSpace(line) {
		case "1":
			return interview.ModeEasy
		case "2", "":
			return interview.ModeMedium
		case "3":
			return interview.ModeHard
		case "4":
			return interview.ModeMixed
		}
		fmt.Println("Please enter 1, 2, 3 or 4.")
	}
}

func chooseTopic(reader *bufio.Reader) string {
	for {
		fmt.Print("Interview topic (e.g. Python, System Design): ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "general"
		}
		if topic := strings.TrimSpace(line); topic != "" {
			return topic
		}
	}
}

type consoleInput struct {
	reader *bufio.Reader
}

func (c *consoleInput) ReadAnswer() (string, error) {
	fmt.Print("\nYour answer: ")
	line, err := c.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && strings.TrimSpace(line) != "" {
			return line, nil
		}
		return "", io.EOF
	}
	return line, nil
}

type consoleOutput struct {
	w     io.Writer
	voice speech.Synthesizer
}

// EmitQuestion delivers the question through the synthesizer; the console
// synthesizer prints it, a real one would speak it.
func (c *consoleOutput) EmitQuestion(question string) {
	fmt.Fprint(c.w, "\nQuestion: ")
	if err := c.voice.Speak(context.Background(), question); err != nil {
		fmt.Fprintln(c.w, question)
	}
}

func (c *consoleOutput) EmitEvaluation(score int, feedback string) {
	fmt.Fprintf(c.w, "\nScore: %d/10\nFeedback: %s\n", score, feedback)
}

func (c *consoleOutput) EmitSkipped() {
	fmt.Fprintln(c.w, "\nQuestion skipped.")
}

func (c *consoleOutput) EmitSummary(attempted, skipped int, average float64, feedback string) {
	fmt.Fprintln(c.w, "\n──── Interview complete ────")
	fmt.Fprintf(c.w, "Questions attempted: %d (skipped %d)\n", attempted, skipped)
	fmt.Fprintf(c.w, "Average score: %.1f/10\n", average)
	if feedback != "" {
		fmt.Fprintf(c.w, "\n%s\n", feedback)
	}
}

func (c *consoleOutput) EmitError(msg string) {
	fmt.Fprintf(c.w, "\n%s\n", msg)
}

// Command triage runs the offline triage checks against a single raw email
// read from a file or stdin and prints the verdict. No network, no ledger.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"

	"github.com/lmarin/mailtriage/internal/core"
	"github.com/lmarin/mailtriage/internal/logging"
	"go.uber.org/zap"
)

var (
	inputFile     = flag.String("file", "", "Input email file (use stdin if not specified)")
	spamThreshold = flag.Float64("threshold", core.DefaultSpamThreshold, "Spam score threshold for skipping")
	whitelist     = flag.String("whitelist", "", "Comma-separated list of additional whitelisted domains")
	verbose       = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog       = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	rules := core.DefaultRiskRules()
	if *whitelist != "" {
		for _, domain := range strings.Split(*whitelist, ",") {
			if domain = strings.TrimSpace(domain); domain != "" {
				rules.WhitelistedDomains = append(rules.WhitelistedDomains, domain)
			}
		}
	}

	risk, err := core.NewRiskScorer(rules, *spamThreshold, logger)
	if err != nil {
		logger.Fatal("Failed to build risk scorer", zap.Error(err))
	}
	classifier := core.NewClassifier(core.DefaultClassifierRules(), logger)

	email, err := readEmail(*inputFile, logger)
	if err != nil {
		logger.Fatal("Failed to read email", zap.Error(err))
	}

	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", email.From)
	fmt.Printf("Subject: %s\n", email.Subject)
	fmt.Printf("Body length: %d bytes\n", len(email.Body))

	score, reasons := risk.Score(email)
	skip, skipReason := risk.ShouldSkip(email)
	triage := classifier.Classify(email)

	fmt.Printf("\n=== Risk ===\n")
	fmt.Printf("Spam score: %.2f (threshold %.2f)\n", score, risk.Threshold())
	if len(reasons) > 0 {
		fmt.Printf("Reasons: %s\n", strings.Join(reasons, "; "))
	}
	fmt.Printf("Skip: %t\n", skip)
	if skip {
		fmt.Printf("Skip reason: %s\n", skipReason)
	}

	fmt.Printf("\n=== Classification ===\n")
	fmt.Printf("Category: %s\n", triage.Category)
	if len(triage.MatchedKeywords) > 0 {
		fmt.Printf("Matched keywords: %s\n", strings.Join(triage.MatchedKeywords, ", "))
	}
	fmt.Printf("Sentiment: %s\n", triage.Sentiment)
	fmt.Printf("Priority: %s\n", triage.Priority)
	if triage.SenderName != "" {
		fmt.Printf("Sender name: %s\n", triage.SenderName)
	}
}

func readEmail(path string, logger *zap.Logger) (*core.InboundEmail, error) {
	var reader io.Reader
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		reader = file
		logger.Debug("Reading email from file", zap.String("file", path))
	} else {
		reader = os.Stdin
		logger.Debug("Reading email from stdin")
	}

	msg, err := mail.ReadMessage(bufio.NewReader(reader))
	if err != nil {
		return nil, err
	}

	bodyBytes, err := io.ReadAll(msg.Body)
	if err != nil {
		return nil, err
	}

	return &core.InboundEmail{
		ID:        "local",
		MessageID: msg.Header.Get("Message-Id"),
		From:      msg.Header.Get("From"),
		To:        msg.Header.Get("To"),
		Subject:   msg.Header.Get("Subject"),
		Body:      string(bodyBytes),
	}, nil
}

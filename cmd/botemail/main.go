package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alicydosanjos/Bot-Email/internal/bot"
	"github.com/alicydosanjos/Bot-Email/internal/category"
	"github.com/alicydosanjos/Bot-Email/internal/classify"
	"github.com/alicydosanjos/Bot-Email/internal/config"
	"github.com/alicydosanjos/Bot-Email/internal/history"
	"github.com/alicydosanjos/Bot-Email/internal/inbox"
	"github.com/alicydosanjos/Bot-Email/internal/web"
)

var (
	configPath string

	version = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "botemail",
		Short:   "Classify incoming email and draft automatic replies",
		Long:    "botemail classifies email into six intents (greeting, question, complaint, proposal, scheduling, urgency), scores sentiment, extracts keywords, and drafts a reply from the matching template.",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default ~/.botemail/config.yaml)")

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(trainCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(monitorCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(statusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && configPath == "" {
			// No config file yet; run with defaults.
			return config.Default(), nil
		}
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadCategories(cfg *config.Config) (*category.Set, error) {
	if cfg.Categories == "" {
		return category.DefaultSet(), nil
	}
	return category.LoadFile(cfg.Categories)
}

func newBot(cfg *config.Config) (*bot.Bot, error) {
	cats, err := loadCategories(cfg)
	if err != nil {
		return nil, err
	}
	b, err := bot.New(cfg, cats)
	if err != nil {
		return nil, err
	}

	// Pick up a previously trained model when one exists.
	if err := b.LoadModel(cfg.Storage.ModelPath); err != nil {
		if !errors.Is(err, classify.ErrModelNotFound) {
			fmt.Fprintf(os.Stderr, "Warning: could not load model: %v\n", err)
		}
	}
	return b, nil
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file already exists: %s", path)
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Printf("Wrote default config to %s\n", path)
			return nil
		},
	}
}

func classifyCmd() *cobra.Command {
	var emlPath string
	var senderName string

	cmd := &cobra.Command{
		Use:   "classify [text]",
		Short: "Classify an email and draft a reply",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) == 1 {
				text = args[0]
			}
			return runClassify(text, emlPath, senderName)
		},
	}

	cmd.Flags().StringVar(&emlPath, "eml", "", "read the email from an .eml file instead of the argument")
	cmd.Flags().StringVar(&senderName, "sender", "", "recipient name to use in the drafted reply")
	return cmd
}

func runClassify(text, emlPath, senderName string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	b, err := newBot(cfg)
	if err != nil {
		return err
	}

	var sender string
	if emlPath != "" {
		f, err := os.Open(emlPath)
		if err != nil {
			return fmt.Errorf("failed to open email file: %w", err)
		}
		defer f.Close()

		email, err := inbox.ParseMessage(f)
		if err != nil {
			return err
		}
		text = email.Text()
		sender = email.From
		if senderName == "" {
			senderName = email.SenderFirstName()
		}
		if email.Subject != "" {
			fmt.Printf("Subject:    %s\n", email.Subject)
		}
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no email text: pass it as an argument or use --eml")
	}

	analysis := b.Analyze(text, senderName)

	source := "trained model"
	if !analysis.FromModel {
		source = "keyword rules"
	}
	fmt.Printf("Category:   %s %s (%.0f%% via %s)\n", analysis.Icon, analysis.CategoryName, analysis.Confidence*100, source)
	fmt.Printf("Sentiment:  %s\n", analysis.Sentiment)
	fmt.Printf("Keywords:   %s\n", strings.Join(analysis.Keywords, ", "))
	fmt.Printf("\nDraft reply:\n%s\n", analysis.Response)

	store, err := history.NewStore(cfg.Storage.HistoryDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history: %v\n", err)
		return nil
	}
	defer store.Close()

	rec := &history.Record{
		Source:     "cli",
		Sender:     sender,
		Category:   string(analysis.Category),
		Sentiment:  string(analysis.Sentiment),
		Confidence: analysis.Confidence,
		Keywords:   analysis.Keywords,
		Response:   analysis.Response,
	}
	if err := store.Add(rec); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not record analysis: %v\n", err)
	}
	return nil
}

func trainCmd() *cobra.Command {
	var dataPath string
	var save bool

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the classifier from a labeled CSV file",
		Long:  "Trains the classifier from a CSV file with email_text and category columns. Rows with labels outside the six known categories are skipped and counted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrain(dataPath, save)
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "CSV file with email_text and category columns (required)")
	cmd.Flags().BoolVar(&save, "save", true, "save the trained model on success")
	cmd.MarkFlagRequired("data")
	return cmd
}

func runTrain(dataPath string, save bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cats, err := loadCategories(cfg)
	if err != nil {
		return err
	}
	b, err := bot.New(cfg, cats)
	if err != nil {
		return err
	}

	examples, err := readTrainingCSV(dataPath)
	if err != nil {
		return err
	}

	fmt.Printf("Training %s on %d examples...\n", cfg.Model.Algorithm, len(examples))

	report, err := b.TrainModel(examples)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(report.String())

	if save {
		if err := b.SaveModel(cfg.Storage.ModelPath); err != nil {
			return fmt.Errorf("trained but failed to save model: %w", err)
		}
		fmt.Printf("\nModel saved to %s\n", cfg.Storage.ModelPath)
	}
	return nil
}

// readTrainingCSV reads labeled examples from a CSV file. The header row
// names the columns; email_text and category are located by name with a
// fallback to the first two columns.
func readTrainingCSV(path string) ([]classify.Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open training data: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	textCol, labelCol := 0, 1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "email_text", "text", "body":
			textCol = i
		case "category", "label":
			labelCol = i
		}
	}

	var examples []classify.Example
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if len(row) <= textCol || len(row) <= labelCol {
			continue
		}
		examples = append(examples, classify.Example{
			Text:  row[textCol],
			Label: row[labelCol],
		})
	}
	return examples, nil
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (default from config)")
	return cmd
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	b, err := newBot(cfg)
	if err != nil {
		return err
	}

	store, err := history.NewStore(cfg.Storage.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := web.NewServer(cfg, b, store, port)
	return srv.Start(ctx)
}

func monitorCmd() *cobra.Command {
	var days int
	var loop bool

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Monitor an IMAP inbox and draft replies for new email",
		Long:  "Connects to the configured IMAP mailbox, classifies incoming email, and records the analysis with a drafted reply. Nothing is ever sent.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(days, loop)
		},
	}

	cmd.Flags().IntVar(&days, "days", 1, "process emails from the last N days on the first pass")
	cmd.Flags().BoolVar(&loop, "loop", false, "keep polling for new email")
	return cmd
}

func runMonitor(days int, loop bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateInbox(); err != nil {
		return err
	}
	b, err := newBot(cfg)
	if err != nil {
		return err
	}

	store, err := history.NewStore(cfg.Storage.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := inbox.NewMonitor(cfg.Inbox)
	if err := m.Connect(ctx); err != nil {
		return err
	}
	defer m.Disconnect()

	emails, err := m.FetchRecent(ctx, days)
	if err != nil {
		return err
	}
	processEmails(b, store, m, emails)

	if !loop {
		return nil
	}

	interval := time.Duration(cfg.Inbox.PollIntervalSec) * time.Second
	log.Printf("Polling every %s (press Ctrl+C to stop)...", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			emails, err := m.FetchUnseen(ctx)
			if err != nil {
				log.Printf("Error fetching email: %v", err)
				continue
			}
			processEmails(b, store, m, emails)
		}
	}
}

func processEmails(b *bot.Bot, store *history.Store, m *inbox.Monitor, emails []inbox.Email) {
	for _, email := range emails {
		text := email.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		analysis := b.Analyze(text, email.SenderFirstName())

		log.Printf("%s %s from %s: %s (%s)", analysis.Icon, analysis.CategoryName, email.From, email.Subject, analysis.Sentiment)

		rec := &history.Record{
			Source:     "inbox",
			Sender:     email.From,
			Subject:    email.Subject,
			Category:   string(analysis.Category),
			Sentiment:  string(analysis.Sentiment),
			Confidence: analysis.Confidence,
			Keywords:   analysis.Keywords,
			Response:   analysis.Response,
		}
		if err := store.Add(rec); err != nil {
			log.Printf("Warning: failed to record analysis: %v", err)
			continue
		}
		if email.UID != 0 {
			if err := m.MarkSeen(email.UID); err != nil {
				log.Printf("Warning: failed to mark email as seen: %v", err)
			}
		}
	}
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories, their keywords and priorities",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cats, err := loadCategories(cfg)
			if err != nil {
				return err
			}

			for _, c := range category.All() {
				def := cats.Definition(c)
				fmt.Printf("%s %-12s %-14s priority %d\n", def.Icon, c, def.Name, def.Priority)
				fmt.Printf("   keywords: %s\n", strings.Join(def.Keywords, ", "))
			}
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show model state and recent history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of recent analyses to show")
	return cmd
}

func runStatus(limit int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	b, err := newBot(cfg)
	if err != nil {
		return err
	}

	if b.Trained() {
		fmt.Printf("Model:      trained (%s)\n", cfg.Model.Algorithm)
	} else {
		fmt.Println("Model:      untrained (keyword-rule fallback)")
	}
	fmt.Printf("Model path: %s\n", cfg.Storage.ModelPath)

	store, err := history.NewStore(cfg.Storage.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.GetStats()
	if err != nil {
		return err
	}
	fmt.Printf("\nAnalyzed:   %d emails\n", stats.Total)
	for _, c := range category.All() {
		if n := stats.ByCategory[string(c)]; n > 0 {
			fmt.Printf("  %-12s %d\n", c, n)
		}
	}

	records, err := store.Recent(limit)
	if err != nil {
		return err
	}
	if len(records) > 0 {
		fmt.Println("\nRecent:")
		for _, r := range records {
			fmt.Printf("  %s  %-12s %-8s %s\n", r.CreatedAt.Format("2006-01-02 15:04"), r.Category, r.Sentiment, r.Subject)
		}
	}
	return nil
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"rental-listings/internal/client"
	"rental-listings/internal/config"
	"rental-listings/internal/form"
	"rental-listings/internal/listing"
	"rental-listings/internal/logger"
)

// listctl drives the listing submission workflow from the command line:
//
//	listctl submit -title Loft -description Nice -price 100 -guests 2 -image ./front.png
//	listctl submit -log -from ./loft.json -price 120
//	listctl list
func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	log, err := logger.New(config.LoggingConfig{Level: getEnv("LOG_LEVEL", "info"), Development: true})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	switch os.Args[1] {
	case "submit":
		err = runSubmit(ctx, log, os.Args[2:])
	case "list":
		err = runList(ctx, log, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: listctl <submit|list> [flags]")
}

func newClient(fs *flag.FlagSet, log *zap.Logger) func() *client.Client {
	api := fs.String("api", getEnv("LISTINGS_API", "http://localhost:8080"), "listings API base URL")
	timeout := fs.Duration("timeout", client.DefaultTimeout, "request timeout")
	return func() *client.Client {
		return client.New(*api, log, client.WithTimeout(*timeout))
	}
}

func runSubmit(ctx context.Context, log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	api := newClient(fs, log)
	image := fs.String("image", "", "image file to upload")
	title := fs.String("title", "", "listing title")
	description := fs.String("description", "", "listing description")
	price := fs.String("price", "0", "price per night")
	guests := fs.String("guests", "1", "number of guests")
	beds := fs.String("beds", "1", "number of beds")
	baths := fs.String("baths", "1", "number of baths")
	edit := fs.String("from", "", "JSON file with an existing listing to start from")
	logStatus := fs.Bool("log", false, "write status messages to the structured log instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := form.Options{Notifier: stdoutNotifier{}}
	if *logStatus {
		opts.Notifier = form.NewLogNotifier(log)
	}
	if *edit != "" {
		initial, err := readInitial(*edit)
		if err != nil {
			return err
		}
		opts.InitialValues = initial
		opts.ButtonText = "Save changes"
	}
	f := form.New(api(), opts)

	// only flags given on the command line override the initial values
	set := map[string]string{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = fl.Value.String() })
	if *edit == "" {
		set["title"], set["description"] = *title, *description
		set["price"], set["guests"], set["beds"], set["baths"] = *price, *guests, *beds, *baths
	}
	for _, field := range form.Fields {
		if v, ok := set[field.Name]; ok {
			if err := f.SetField(field.Name, v); err != nil {
				return err
			}
		}
	}

	if *image != "" {
		file, err := client.OpenLocalFile(*image)
		if err != nil {
			return err
		}
		if err := f.PickImage(ctx, file); err != nil {
			_, _, msg := f.Image()
			return fmt.Errorf("%s: %w", msg, err)
		}
	}

	if !f.CanSubmit() {
		for _, field := range form.Fields {
			if msg, ok := f.Errors()[field.Name]; ok {
				fmt.Fprintf(os.Stderr, "  %-12s %s\n", field.Label+":", msg)
			}
		}
		return errors.New("listing is not valid")
	}

	fmt.Println(f.ButtonText() + "...")
	created, err := f.Submit(ctx)
	if err != nil {
		return err
	}
	return printJSON(created)
}

func runList(ctx context.Context, log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	api := newClient(fs, log)
	if err := fs.Parse(args); err != nil {
		return err
	}

	homes, err := api().ListListings(ctx)
	if err != nil {
		return err
	}
	for _, h := range homes {
		fmt.Printf("%s  %-30s %6d/night  %d guests  %d beds  %d baths  %s\n",
			h.ID, h.Title, h.Price, h.Guests, h.Beds, h.Baths, h.CreatedAt.Format(time.DateOnly))
	}
	return nil
}

func readInitial(path string) (*listing.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var in listing.Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &in, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// stdoutNotifier prints status messages as they happen
type stdoutNotifier struct{}

func (stdoutNotifier) Loading(msg string) string { fmt.Println(msg); return "" }
func (stdoutNotifier) Success(_, msg string)     { fmt.Println(msg) }
func (stdoutNotifier) Error(_, msg string)       { fmt.Fprintln(os.Stderr, msg) }

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Command contact submits the contact form from the terminal, e.g. for smoke
// testing a deployment:
//
//	contact -url https://bandevs.com -name Alice -email alice@example.com -message "Hello there!"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/banddevs/backend/internal/contactform"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	baseURL := flag.String("url", envOr("CONTACT_API_URL", "http://localhost:8080"), "base URL of the API")
	name := flag.String("name", "", "your name (required)")
	email := flag.String("email", "", "your email (required)")
	company := flag.String("company", "", "company (optional)")
	svc := flag.String("service", "", "service of interest (optional)")
	message := flag.String("message", "", "message, at least 10 characters (required)")
	flag.Parse()

	form := contactform.New(*baseURL, nil)
	for field, value := range map[string]string{
		"name":    *name,
		"email":   *email,
		"company": *company,
		"service": *svc,
		"message": *message,
	} {
		if err := form.SetField(field, value); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintln(os.Stderr, "Sending...")
	st := form.Submit(ctx)
	if st.Kind != contactform.StatusSuccess {
		fmt.Fprintln(os.Stderr, st.Message)
		for _, fe := range st.Errors {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", fe.Field, fe.Message)
		}
		os.Exit(1)
	}
	fmt.Println(st.Message)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"
)

const defaultPassword = "testpassword123"

var sampleMovies = []Movie{
	{"The Matrix", "A hacker learns the truth about his reality.", 1999, "Action, Sci-Fi", "8.7"},
	{"Heat", "A detective hunts a crew of professional thieves.", 1995, "Crime, Drama", "8.3"},
	{"Spirited Away", "A girl wanders into a world of spirits.", 2001, "Animation, Fantasy", "8.6"},
	{"Alien", "A deep-space crew is stalked by a creature.", 1979, "Horror, Sci-Fi", "8.5"},
	{"Arrival", "A linguist works to talk with visitors.", 2016, "Drama, Sci-Fi", "7.9"},
	{"Paddington 2", "A bear tries to buy a pop-up book.", 2017, "Comedy, Family", "7.8"},
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	baseURL := "http://localhost:8080"
	if envURL := os.Getenv("CATALOG_URL"); envURL != "" {
		baseURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "populate":
		populateCmd(baseURL, args)
	case "watch":
		watchCmd(baseURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Catalog Simulator - Development tool for filling a local movie catalog

USAGE:
  simulator <command> [options]

COMMANDS:
  populate  Register fake users and have each of them add movies
  watch     Print live catalog events until interrupted
  help      Show this help message

ENVIRONMENT:
  CATALOG_URL   Server URL (default: http://localhost:8080)

EXAMPLES:
  # Three users, two movies each
  simulator populate

  # Ten users, one movie each
  simulator populate --users=10 --movies=1

  # Watch events while another terminal populates
  simulator watch`)
}

func populateCmd(baseURL string, args []string) {
	fs := flag.NewFlagSet("populate", flag.ExitOnError)
	users := fs.Int("users", 3, "Number of fake users to register")
	movies := fs.Int("movies", 2, "Movies added by each user")
	fs.Parse(args)

	if *users < 1 || *movies < 0 {
		fmt.Println("Error: --users must be at least 1 and --movies not negative")
		os.Exit(1)
	}

	fmt.Println("=== Catalog Simulator: Populate ===")
	fmt.Println()

	added := 0
	for i := 0; i < *users; i++ {
		client, err := NewCatalogClient(baseURL)
		if err != nil {
			fmt.Printf("Failed to create client: %v\n", err)
			os.Exit(1)
		}

		if err := client.Register(fmt.Sprintf("viewer%d", i+1), defaultPassword); err != nil {
			fmt.Printf("  [%d/%d] FAILED to register: %v\n", i+1, *users, err)
			os.Exit(1)
		}
		fmt.Printf("  [%d/%d] %s registered\n", i+1, *users, client.Username)

		for j := 0; j < *movies; j++ {
			movie := sampleMovies[(i*(*movies)+j)%len(sampleMovies)]
			if err := client.AddMovie(movie); err != nil {
				fmt.Printf("      FAILED to add %q: %v\n", movie.Name, err)
				continue
			}
			added++
			fmt.Printf("      added %s (%d)\n", movie.Name, movie.Year)
		}
	}

	fmt.Println()
	fmt.Println("=========================================")
	fmt.Printf("  %d USERS, %d MOVIES ADDED\n", *users, added)
	fmt.Println("=========================================")
	fmt.Println()
	fmt.Printf("  Catalog:  %s/\n", baseURL)
	fmt.Printf("  Password: %s (same for every user)\n", defaultPassword)
	fmt.Println()
}

func watchCmd(baseURL string, args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	fs.Parse(args)

	client, err := NewCatalogClient(baseURL)
	if err != nil {
		fmt.Printf("Failed to create client: %v\n", err)
		os.Exit(1)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		<-sig
		os.Exit(0)
	}()

	fmt.Printf("Watching %s/ws (Ctrl-C to stop)...\n", baseURL)
	err = client.Watch(func(msg []byte) {
		fmt.Printf("%s  %s\n", time.Now().Format("15:04:05"), msg)
	})
	if err != nil {
		fmt.Printf("Watch ended: %v\n", err)
		os.Exit(1)
	}
}

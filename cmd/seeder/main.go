package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/tagit"
)

// message is one utterance addressed to a named session.
type message struct {
	session string
	text    string
}

var conversations = []message{
	{"Marais flat", "Bonjour, je cherche un 3 pieces dans le 3e"},
	{"Marais flat", "budget max 900k"},
	{"Marais flat", "avec balcon et ascenseur si possible"},
	{"Family house", "Looking for a 5 room house near Versailles"},
	{"Family house", "garden and garage, between 800k and 1m"},
	{"Family house", "quiet street, close to schools"},
	{"Student studio", "studio in Lyon"},
	{"Student studio", "under 150k"},
	{"Student studio", "bright, renovated"},
	{"Investor", "2 chambres a Marseille, 250 000 €"},
	{"Investor", "parking"},
	{"Suburbs", "4 piees, 92, jusqu'à 750k€"},
	{"Suburbs", "terrasse, double vitrage"},
}

var (
	seedFileName = flag.String("src", "", "file of seed data, one \"session<TAB>message\" per line")
	dbPath       = flag.String("db", "./sessions_db", "path to BadgerDB database directory")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// messagesFromFile returns an iterator over tab-separated messages in a file.
// Lines without a tab go to the "default" session.
func messagesFromFile(filename string) (iter.Seq[message], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(message) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			name, text, ok := strings.Cut(scanner.Text(), "\t")
			if !ok {
				name, text = "default", name
			}
			if !yield(message{session: name, text: text}) {
				return
			}
		}
	}, nil
}

// messagesFromSlice returns an iterator over a slice of messages.
func messagesFromSlice(messages []message) iter.Seq[message] {
	return func(yield func(message) bool) {
		for _, m := range messages {
			if !yield(m) {
				return
			}
		}
	}
}

// seed merges every message into its session and saves the sessions touched.
func seed(ctx context.Context, db *tagit.Database, source iter.Seq[message]) error {
	var order []string
	seen := make(map[string]bool)
	for m := range source {
		collection, err := db.OpenSession(ctx, m.session)
		if err != nil {
			return err
		}
		added := collection.Merge(db.Detector().Detect(m.text)...)
		if _, err := db.SaveSession(ctx, m.session, collection); err != nil {
			return fmt.Errorf("saving session %q: %w", m.session, err)
		}
		if !seen[m.session] {
			seen[m.session] = true
			order = append(order, m.session)
		}
		slog.Debug("seeded message", "session", m.session, "added", len(added))
	}

	for _, name := range order {
		stored, err := db.SessionRepository().FindSessionByName(ctx, name)
		if err != nil {
			return err
		}
		slog.Info("seeded session", "name", stored.Name, "tags", len(stored.Tags))
	}
	return nil
}

func main() {
	db, err := tagit.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	var source iter.Seq[message]
	if *seedFileName != "" {
		source, err = messagesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = messagesFromSlice(conversations)
	}

	if err := seed(context.Background(), db, source); err != nil {
		panic(err)
	}
}

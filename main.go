package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/irobinett3/footy-social/internal/api"
	"github.com/irobinett3/footy-social/internal/chat"
	"github.com/irobinett3/footy-social/internal/config"
	"github.com/irobinett3/footy-social/internal/content"
	"github.com/irobinett3/footy-social/internal/models"
	"github.com/irobinett3/footy-social/internal/session"
	"github.com/irobinett3/footy-social/internal/store"
)

func run(ctx context.Context) error {
	listRooms := flag.Bool("list", false, "List fan rooms and exit")
	roomID := flag.Int64("room", 0, "Fan room ID to join")
	username := flag.String("user", os.Getenv("FOOTY_USER"), "Username")
	password := flag.String("password", os.Getenv("FOOTY_PASSWORD"), "Password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	sess := session.New()
	client := api.New(ctx, api.Config{
		BaseURL:  cfg.BaseURL,
		WSURL:    cfg.WSURL,
		Timeout:  cfg.HTTPTimeout,
		RoomsTTL: cfg.RoomsTTL,
	}, sess)

	cache, err := store.Open(cfg.CacheFile)
	if err != nil {
		log.Printf("Cache disabled: %v", err)
		cache = nil
	} else {
		defer func() { _ = cache.Close() }()
	}

	if *username != "" {
		if err := client.Login(ctx, *username, *password); err != nil {
			return err
		}
		log.Printf("Signed in as %s", *username)
	}

	if *listRooms {
		return printRooms(ctx, client, cache)
	}

	if *roomID == 0 {
		flag.Usage()
		return errors.New("either -list or -room is required")
	}

	room, err := client.Room(ctx, *roomID)
	if err != nil {
		return err
	}

	return joinRoom(ctx, cfg, client, sess, cache, room)
}

func printRooms(ctx context.Context, client *api.Client, cache *store.Store) error {
	rooms, err := client.Rooms(ctx)
	if err != nil {
		if cache == nil {
			return err
		}
		log.Printf("Directory unavailable, using cached snapshot: %v", err)
		rooms, err = cache.LoadRooms()
		if err != nil {
			return err
		}
	} else if cache != nil {
		if err := cache.SaveRooms(rooms); err != nil {
			log.Printf("Failed to cache room directory: %v", err)
		}
	}

	for _, room := range rooms {
		marker := " "
		if room.IsGlobal {
			marker = "*"
		}
		fmt.Printf("%s %4d  %-40s %d online\n", marker, room.ID, room.DisplayName, room.ActiveUsers)
	}
	return nil
}

func joinRoom(
	ctx context.Context,
	cfg *config.Config,
	client *api.Client,
	sess *session.Session,
	cache *store.Store,
	room models.Room,
) error {
	printer := newPrinter()
	today := time.Now().Format("2006-01-02")

	opts := chat.Options{
		History: client,
		Dialer:  client,
		Session: sess,
		Policy:  chat.FavoriteTeamPolicy(cfg.EnforceFavorite),
		OnUpdate: func(view chat.View) {
			printer.render(view)
			if cache != nil && view.State == chat.StateConnected {
				if err := cache.SaveTranscript(room.ID, today, view.Messages); err != nil {
					log.Printf("Failed to cache transcript: %v", err)
				}
			}
		},
		OnPresence: func(roomID int64, count int) {
			printer.presence(count)
		},
	}
	if cache != nil {
		opts.Seed = func(roomID int64) []models.Message {
			msgs, err := cache.LoadTranscript(roomID, today)
			if err != nil {
				return nil
			}
			return msgs
		}
	}

	roomClient := chat.NewClient(opts)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return roomClient.Run(gCtx)
	})

	g.Go(func() error {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if gCtx.Err() != nil {
				return nil
			}
			roomClient.Send(scanner.Text())
		}
		return scanner.Err()
	})

	fmt.Printf("Joining %s...\n", room.DisplayName)
	roomClient.SetRoom(&room)

	return g.Wait()
}

// printer writes transcript updates to the terminal, printing each
// message once even when the history fetch replaces the sequence.
type printer struct {
	lastState chat.State
	printed   map[int64]bool
}

func newPrinter() *printer {
	return &printer{printed: make(map[int64]bool)}
}

func (p *printer) render(view chat.View) {
	if view.State != p.lastState {
		p.lastState = view.State
		fmt.Printf("-- %s --\n", view.State)
	}
	if view.Err != "" {
		fmt.Printf("!! %s\n", view.Err)
	}
	for _, msg := range view.Messages {
		if p.printed[msg.ID] {
			continue
		}
		p.printed[msg.ID] = true

		body := msg.Content
		if content.IsGIFURL(body) {
			body = "[GIF] " + body
		}
		fmt.Printf("<%s> %s\n", msg.Username, content.Sanitize(body))
	}
}

func (p *printer) presence(count int) {
	fmt.Printf("-- %d online --\n", count)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Application error: %v", err)
	}
}

// Command seed_demo_data populates a local store with a demo group so the
// server and client can be exercised without going through registration by
// hand. Safe to run repeatedly: existing users are kept.
package main

import (
	goerrors "errors"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"babelchat/auth"
	"babelchat/domain"
	"babelchat/errors"
	"babelchat/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
)

const demoPassword = "Demo&Pass2026!"

type demoUser struct {
	name     string
	language string
}

var demoUsers = []demoUser{
	{name: "alice", language: "fr"},
	{name: "bob", language: "en"},
	{name: "chi", language: "vn"},
}

var demoMessages = []struct {
	sender string
	text   string
}{
	{sender: "alice", text: "Salut tout le monde !"},
	{sender: "bob", text: "Hey, what are we eating tonight?"},
	{sender: "chi", text: "Phở, không cần bàn cãi."},
}

func main() {
	dbPath := flag.String("db", "/tmp/babelchat", "Path to badger DB")
	groupName := flag.String("group", "demo-kitchen", "Name of the demo group")
	flag.Parse()

	log := logs.GetLoggerFromLevel(slog.LevelInfo)

	db, err := badger.Open(badger.DefaultOptions(*dbPath).WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Error("Opening Badger failed", "error", err)
		return
	}
	defer func() { _ = db.Close() }()

	users := repositories.NewUserRepository(db, log)
	groups := repositories.NewGroupRepository(db, log)
	messages := repositories.NewMessageRepository(db, log, nil)
	unread := repositories.NewUnreadRepository(db, log)

	// 1. Users (password is the same for all three)
	ids := make(map[string]string, len(demoUsers))
	for _, du := range demoUsers {
		existing, err := users.GetUserByName(du.name)
		if err == nil {
			ids[du.name] = existing.ID
			log.Info("User already seeded", "user", du.name)
			continue
		}
		if !goerrors.Is(err, errors.ErrNotFound) {
			log.Error("User lookup failed", "user", du.name, "error", err)
			return
		}

		hash, err := auth.HashPassword(demoPassword)
		if err != nil {
			log.Error("Hashing failed", "error", err)
			return
		}
		user := domain.User{
			ID:           uuid.NewString(),
			Username:     du.name,
			DisplayName:  du.name,
			Language:     du.language,
			PasswordHash: hash,
		}
		if err := users.CreateUser(user); err != nil {
			log.Error("User creation failed", "user", du.name, "error", err)
			return
		}
		ids[du.name] = user.ID
		log.Info("User seeded", "user", du.name, "password", demoPassword)
	}

	// 2. One group holding everyone
	group := domain.Group{
		ID:   domain.GroupID(uuid.NewString()),
		Name: *groupName,
	}
	for _, du := range demoUsers {
		group.Members = append(group.Members, ids[du.name])
	}
	if err := groups.CreateGroup(group); err != nil {
		log.Error("Group creation failed", "error", err)
		return
	}
	log.Info("Group seeded", "group", group.ID, "name", group.Name)

	// 3. A short conversation, with unread markers for everyone else
	at := time.Now().UTC().Add(-time.Duration(len(demoMessages)) * time.Minute)
	for i, dm := range demoMessages {
		message := domain.Message{
			ID:         uuid.New(),
			GroupID:    group.ID,
			SenderID:   ids[dm.sender],
			SenderName: dm.sender,
			Text:       dm.text,
			CreatedAt:  at.Add(time.Duration(i) * time.Minute),
		}
		if err := messages.StoreMessage(message); err != nil {
			log.Error("Message seeding failed", "error", err)
			return
		}
		for _, member := range group.OtherMembers(message.SenderID) {
			marker := domain.UnreadMarker{
				ID:        uuid.New(),
				MessageID: message.ID,
				UserID:    member,
				GroupID:   group.ID,
				CreatedAt: message.CreatedAt,
			}
			if err := unread.CreateMarker(marker); err != nil {
				log.Error("Marker seeding failed", "error", err)
				return
			}
		}
	}

	fmt.Printf("\nSeeded group %q (%s) with %d users and %d messages.\n",
		group.Name, group.ID, len(demoUsers), len(demoMessages))
	fmt.Printf("Log in with any of alice/bob/chi and password %q.\n", demoPassword)
}

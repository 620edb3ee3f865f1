package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"counselgo/backend/internal/chat"
	"counselgo/backend/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "show-session":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin show-session <session_id>")
			os.Exit(1)
		}
		sessionID, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Println("Invalid session ID. Please provide an integer.")
			os.Exit(1)
		}
		if err := showSession(storageSvc, uint(sessionID)); err != nil {
			log.Fatalf("Error showing session: %v", err)
		}
	case "show-room":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin show-room <group_id>")
			os.Exit(1)
		}
		groupID := os.Args[2]
		session, err := storageSvc.GetSessionByGroupID(groupID)
		if err != nil {
			log.Fatalf("Error resolving room: %v", err)
		}
		if session == nil {
			fmt.Printf("No session references room %s.\n", groupID)
			os.Exit(1)
		}
		if err := showSession(storageSvc, session.ID); err != nil {
			log.Fatalf("Error showing session: %v", err)
		}
	case "audit-rooms":
		gateway := chat.NewClient(os.Getenv("CHAT_BACKEND_URL"),
			chat.Credentials{UserID: os.Getenv("CHAT_TECHNICAL_USER_ID"), AuthToken: os.Getenv("CHAT_TECHNICAL_USER_TOKEN")},
			chat.Credentials{UserID: os.Getenv("CHAT_SYSTEM_USER_ID"), AuthToken: os.Getenv("CHAT_SYSTEM_USER_TOKEN")},
		)
		if err := auditRooms(storageSvc, gateway); err != nil {
			log.Fatalf("Error auditing rooms: %v", err)
		}
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func showSession(s storage.Storage, sessionID uint) error {
	session, err := s.GetSessionByID(sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session %d not found", sessionID)
	}

	fmt.Printf("Session %d\n", session.ID)
	fmt.Printf("  Status:          %s\n", session.Status)
	fmt.Printf("  User:            %s\n", session.UserID)
	if session.ConsultantID != nil {
		fmt.Printf("  Consultant:      %s\n", *session.ConsultantID)
	} else {
		fmt.Printf("  Consultant:      <none>\n")
	}
	fmt.Printf("  Agency:          %d\n", session.AgencyID)
	fmt.Printf("  Consulting type: %s\n", session.ConsultingType)
	fmt.Printf("  Team session:    %v\n", session.TeamSession)
	if session.GroupID != nil {
		fmt.Printf("  Group:           %s\n", *session.GroupID)
	}
	if session.FeedbackGroupID != nil {
		fmt.Printf("  Feedback group:  %s\n", *session.FeedbackGroupID)
	}
	if session.EnquiryMessageDate != nil {
		fmt.Printf("  Enquiry date:    %s\n", session.EnquiryMessageDate)
	}
	return nil
}

// auditRooms cross-checks every session with rooms against the chat
// backend and reports rooms that no longer exist. Aborted enquiry
// creations can leave such references behind.
func auditRooms(s storage.Storage, gateway chat.Gateway) error {
	sessions, err := s.ListSessionsWithRooms()
	if err != nil {
		return err
	}

	orphaned := 0
	for _, session := range sessions {
		for _, roomID := range []*string{session.GroupID, session.FeedbackGroupID} {
			if roomID == nil {
				continue
			}
			_, err := gateway.Members(*roomID)
			if err == nil {
				continue
			}
			if errors.Is(err, chat.ErrRoomNotFound) {
				fmt.Printf("session %d references missing room %s\n", session.ID, *roomID)
				orphaned++
				continue
			}
			return fmt.Errorf("checking room %s: %w", *roomID, err)
		}
	}

	fmt.Printf("Checked %d sessions, found %d missing rooms.\n", len(sessions), orphaned)
	return nil
}

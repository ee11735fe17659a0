package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hiraku/chatr/internal/client"
	"github.com/hiraku/chatr/pkg/protocol"
)

func main() {
	serverAddr := flag.String("server", "localhost:3030", "Server address (e.g., localhost:3030)")
	username := flag.String("username", "", "Username for chat")
	flag.Parse()

	if *username == "" {
		log.Fatal("Username is required. Use -username flag")
	}

	c := client.New(*serverAddr, *username)
	if err := c.Connect(); err != nil {
		log.Fatalf("Failed to connect to server: %v", err)
	}
	defer c.Disconnect()

	if err := c.Hello(); err != nil {
		log.Fatalf("Failed to register: %v", err)
	}

	// Receive and display server events.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for resp := range c.Events() {
			switch r := resp.(type) {
			case protocol.Welcome:
				fmt.Printf("*** welcome %s, %d user(s) online ***\n", r.Username, r.UserCount)
			case protocol.Chat:
				if r.Private {
					fmt.Printf("[%s -> you]: %s\n", r.From, r.Body)
				} else {
					fmt.Printf("[%s]: %s\n", r.From, r.Body)
				}
			case protocol.Join:
				fmt.Printf("*** %s joined the chat ***\n", r.Username)
			case protocol.Left:
				fmt.Printf("*** %s left the chat ***\n", r.Username)
			case protocol.ErrorResponse:
				fmt.Printf("!!! %s\n", r.Err.Error())
			}
		}
	}()

	fmt.Println("Type your messages ('/pm <user> <body>' for private, '/quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		if text == "/quit" {
			break
		}

		if rest, ok := strings.CutPrefix(text, "/pm "); ok {
			to, body, found := strings.Cut(strings.TrimSpace(rest), " ")
			if !found {
				fmt.Println("usage: /pm <user> <body>")
				continue
			}
			if err := c.SendPrivate(to, body); err != nil {
				log.Printf("Failed to send private message: %v", err)
			}
			continue
		}

		if err := c.SendMessage(text); err != nil {
			log.Printf("Failed to send message: %v", err)
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("Error reading input: %v", err)
	}

	if err := c.Quit(); err == nil {
		<-done
	}
	log.Println("Disconnected from server")
}

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/transport/ws"
)

var chatNoSession bool

// chatCmd opens an interactive session over the chat socket.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat over WebSocket",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatNoSession, "no-session", false, "do not record a transcript")
}

func runChat(cmd *cobra.Command, args []string) error {
	tok, err := bearer()
	if err != nil {
		return err
	}

	var sessionID string
	if !chatNoSession {
		var sess domain.CreateSessionResponse
		if err := newAPIClient(serverAddr, tok).do(cmd.Context(), http.MethodPost, "/ai/session", domain.CreateSessionRequest{}, &sess); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		sessionID = sess.SessionID
		fmt.Printf("Session %s (%s)\n", sess.SessionID, sess.Title)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+tok)
	addr := wsURL(serverAddr)
	fmt.Printf("Connecting to %s...\n", addr)
	conn, _, err := websocket.DefaultDialer.Dial(addr, header)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	go readReplies(conn, done)

	fmt.Println("\nType a message and press Enter to send.")
	fmt.Println("Commands: /quit to exit")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Print("> ")
		select {
		case <-interrupt:
			fmt.Println("\nInterrupted")
			return nil
		case <-done:
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			input := strings.TrimSpace(line)
			if input == "" {
				continue
			}
			if input == "/quit" {
				fmt.Println("Bye!")
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return nil
			}

			msg := ws.ChatMessage{
				BaseMessage: ws.BaseMessage{
					Type:      ws.TypeChat,
					Ts:        time.Now().UnixMilli(),
					RequestID: fmt.Sprintf("req_%d", time.Now().UnixNano()),
					SessionID: sessionID,
				},
				Prompt: input,
			}
			if err := conn.WriteJSON(msg); err != nil {
				return fmt.Errorf("send: %w", err)
			}
		}
	}
}

// readReplies prints server messages until the connection closes.
func readReplies(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				fmt.Fprintf(os.Stderr, "\nread error: %v\n", err)
			}
			return
		}

		var base ws.BaseMessage
		if err := json.Unmarshal(data, &base); err != nil {
			continue
		}
		switch base.Type {
		case ws.TypeReply:
			var reply ws.ReplyMessage
			if err := json.Unmarshal(data, &reply); err != nil {
				continue
			}
			fmt.Printf("\n%s\n", reply.Message)
			if reply.Data != nil {
				printJSON(reply.Data)
			}
		case ws.TypeError:
			var e ws.ErrorMessage
			if err := json.Unmarshal(data, &e); err != nil {
				continue
			}
			fmt.Printf("\n[%s] %s\n", e.Code, e.Message)
		}
		fmt.Print("> ")
	}
}

package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"babelchat/projection"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

// Config drives the terminal client entirely through the environment, so one
// exported CHAT_TOKEN is enough to switch identities between runs.
type Config struct {
	ServerURL string `envconfig:"CHAT_SERVER_URL" default:"http://localhost:8080"`
	Token     string `envconfig:"CHAT_TOKEN"`
	// CHAT_COLOURS enables colorized output for better readability
	Colours bool `envconfig:"CHAT_COLOURS" default:"true"`
}

func main() {
	_ = godotenv.Load()
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	client := &client{cfg: cfg, http: &http.Client{Timeout: 15 * time.Second}}

	var err error
	switch os.Args[1] {
	case "register":
		err = client.register(os.Args[2:])
	case "login":
		err = client.login(os.Args[2:])
	case "groups":
		err = client.listGroups()
	case "create-group":
		err = client.createGroup(os.Args[2:])
	case "join":
		err = client.joinGroup(os.Args[2:])
	case "history":
		err = client.history(os.Args[2:])
	case "send":
		err = client.send(os.Args[2:])
	case "listen":
		err = client.listen(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage:
  client register <username> <password> [language]
  client login <username> <password>
  client groups
  client create-group <name>
  client join <group_id>
  client history <group_id>
  client send <group_id>      (reads lines from stdin)
  client listen <group_id>    (prints unread + change events)`)
}

type client struct {
	cfg  Config
	http *http.Client
}

func (c *client) banner(text string) {
	if c.cfg.Colours {
		text = color.New(color.BgBlack, color.FgGreen).Render(text)
	}
	fmt.Println(text)
}

func (c *client) call(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, c.cfg.ServerURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: %s (%s)", method, path, resp.Status, strings.TrimSpace(string(payload)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *client) register(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("register needs <username> <password> [language]")
	}
	body := map[string]string{"username": args[0], "password": args[1]}
	if len(args) > 2 {
		body["language"] = args[2]
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.call(http.MethodPost, "/user", body, &resp); err != nil {
		return err
	}
	fmt.Println("export CHAT_TOKEN=" + resp.Token)
	return nil
}

func (c *client) login(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("login needs <username> <password>")
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.call(http.MethodPost, "/login",
		map[string]string{"username": args[0], "password": args[1]}, &resp); err != nil {
		return err
	}
	fmt.Println("export CHAT_TOKEN=" + resp.Token)
	return nil
}

func (c *client) listGroups() error {
	var groups []struct {
		ID      string   `json:"id"`
		Name    string   `json:"name"`
		Members []string `json:"members"`
	}
	if err := c.call(http.MethodGet, "/groups", nil, &groups); err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Members"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, g := range groups {
		table.Append([]string{g.ID, g.Name, fmt.Sprintf("%d", len(g.Members))})
	}
	table.Render()
	return nil
}

func (c *client) createGroup(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("create-group needs <name>")
	}
	var group struct {
		ID string `json:"id"`
	}
	if err := c.call(http.MethodPost, "/group", map[string]string{"name": args[0]}, &group); err != nil {
		return err
	}
	fmt.Println(group.ID)
	return nil
}

func (c *client) joinGroup(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("join needs <group_id>")
	}
	return c.call(http.MethodPost, "/group/"+args[0]+"/join", nil, nil)
}

func (c *client) history(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("history needs <group_id>")
	}
	var resp struct {
		Messages []struct {
			ID         string `json:"id"`
			Text       string `json:"text"`
			SenderName string `json:"sender_name"`
			Datetime   string `json:"datetime"`
		} `json:"messages"`
	}
	if err := c.call(http.MethodGet, "/message/"+args[0], nil, &resp); err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"When", "Who", "Text", "ID"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, m := range resp.Messages {
		table.Append([]string{m.Datetime, m.SenderName, m.Text, m.ID})
	}
	table.Render()
	return nil
}

func (c *client) dial(path, groupID string) (*websocket.Conn, error) {
	wsURL := "ws" + strings.TrimPrefix(c.cfg.ServerURL, "http")
	url := fmt.Sprintf("%s%s?token=%s&group_id=%s", wsURL, path, c.cfg.Token, groupID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	return conn, err
}

// send pumps stdin lines into the live channel and prints pushes from the
// other members in between.
func (c *client) send(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("send needs <group_id>")
	}
	conn, err := c.dial("/send-message", args[0])
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	c.banner("  ====== connected, type away ======")

	go func() {
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			line := string(payload)
			if c.cfg.Colours {
				line = color.FgCyan.Render(line)
			}
			fmt.Println(line)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// listen drains the unread channel and prints every frame: message deliveries
// and change events share this socket. A local timeline absorbs the channel's
// redeliveries so nothing is printed twice.
func (c *client) listen(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("listen needs <group_id>")
	}
	conn, err := c.dial("/get-unread-messages", args[0])
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	c.banner("  ====== listening for messages ======")

	timeline := projection.NewTimeline()
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var frame projection.Frame
		if err := json.Unmarshal(payload, &frame); err != nil {
			fmt.Println(string(payload))
			continue
		}
		line := ""
		switch frame.Type {
		case "Text":
			line = fmt.Sprintf("[%s] %s", frame.SenderName, frame.Text)
		case "Edit":
			line = fmt.Sprintf("[edited %s] %s", frame.ID, frame.NewText)
		case "Delete":
			line = fmt.Sprintf("[deleted %s]", frame.ID)
		case "Translate":
			line = fmt.Sprintf("[translated %s] fr=%q vn=%q en=%q", frame.ID, frame.TextFr, frame.TextVn, frame.TextEn)
		default:
			fmt.Println(string(payload))
			continue
		}
		// Redeliveries and events for unknown messages stay silent
		if !timeline.Apply(frame) {
			continue
		}
		if c.cfg.Colours {
			line = color.FgYellow.Render(line)
		}
		fmt.Println(line)
	}
}

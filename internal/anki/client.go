// Package anki is a small client for the AnkiConnect add-on.
package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cognicore/kotoba/pkg/kotoba/internalerr"
)

// Defaults for a local AnkiConnect install.
const (
	DefaultURL     = "http://localhost:8765"
	DefaultVersion = 6
)

// Client calls AnkiConnect.
type Client struct {
	URL     string
	Version int

	HTTPClient *http.Client
}

type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// Field is one note field as returned by notesInfo and cardsInfo.
type Field struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

// Note is a note as returned by notesInfo.
type Note struct {
	NoteID    int64            `json:"noteId"`
	ModelName string           `json:"modelName"`
	Tags      []string         `json:"tags"`
	Fields    map[string]Field `json:"fields"`
}

// Field returns the raw value of field name, or "".
func (n Note) Field(name string) string { return n.Fields[name].Value }

// HasTag reports whether the note carries tag.
func (n Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Card is a card as returned by cardsInfo.
type Card struct {
	CardID   int64            `json:"cardId"`
	NoteID   int64            `json:"note"`
	Deck     string           `json:"deckName"`
	Type     int              `json:"type"`
	Queue    int              `json:"queue"`
	Due      int              `json:"due"`
	Interval int              `json:"interval"`
	Reps     int              `json:"reps"`
	Lapses   int              `json:"lapses"`
	Fields   map[string]Field `json:"fields"`
}

// Field returns the raw value of field name and whether it exists.
func (c Card) Field(name string) (string, bool) {
	f, ok := c.Fields[name]
	return f.Value, ok
}

// NewNote is the payload of addNote.
type NewNote struct {
	Deck   string            `json:"deckName"`
	Model  string            `json:"modelName"`
	Fields map[string]string `json:"fields"`
	Tags   []string          `json:"tags"`
}

// Audio attaches a local file to note fields in updateNoteFields.
type Audio struct {
	Filename string   `json:"filename"`
	Path     string   `json:"path"`
	Fields   []string `json:"fields"`
}

// DeckNames lists every deck.
func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	var out []string
	return out, c.call(ctx, "deckNames", nil, &out)
}

// FindNotes returns the ids of notes matching an Anki search query.
func (c *Client) FindNotes(ctx context.Context, query string) ([]int64, error) {
	var out []int64
	return out, c.call(ctx, "findNotes", map[string]any{"query": query}, &out)
}

// NotesInfo loads notes by id.
func (c *Client) NotesInfo(ctx context.Context, ids []int64) ([]Note, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []Note
	return out, c.call(ctx, "notesInfo", map[string]any{"notes": ids}, &out)
}

// NotesForQuery combines FindNotes and NotesInfo.
func (c *Client) NotesForQuery(ctx context.Context, query string) ([]Note, error) {
	ids, err := c.FindNotes(ctx, query)
	if err != nil {
		return nil, err
	}
	return c.NotesInfo(ctx, ids)
}

// AddNote creates a note and returns its id.
func (c *Client) AddNote(ctx context.Context, n NewNote) (int64, error) {
	if n.Tags == nil {
		n.Tags = []string{}
	}
	var id int64
	return id, c.call(ctx, "addNote", map[string]any{"note": n}, &id)
}

// UpdateNoteFields sets fields on a note, optionally attaching audio.
func (c *Client) UpdateNoteFields(ctx context.Context, id int64, fields map[string]string, audio ...Audio) error {
	if fields == nil {
		fields = map[string]string{}
	}
	note := map[string]any{"id": id, "fields": fields}
	if len(audio) > 0 {
		note["audio"] = audio
	}
	return c.call(ctx, "updateNoteFields", map[string]any{"note": note}, nil)
}

// AddTags adds space separated tags to notes.
func (c *Client) AddTags(ctx context.Context, ids []int64, tags string) error {
	return c.call(ctx, "addTags", map[string]any{"notes": ids, "tags": tags}, nil)
}

// RemoveTags removes space separated tags from notes.
func (c *Client) RemoveTags(ctx context.Context, ids []int64, tags string) error {
	return c.call(ctx, "removeTags", map[string]any{"notes": ids, "tags": tags}, nil)
}

// FindCards returns the ids of cards matching an Anki search query.
func (c *Client) FindCards(ctx context.Context, query string) ([]int64, error) {
	var out []int64
	return out, c.call(ctx, "findCards", map[string]any{"query": query}, &out)
}

// CardsInfo loads cards by id.
func (c *Client) CardsInfo(ctx context.Context, ids []int64) ([]Card, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []Card
	return out, c.call(ctx, "cardsInfo", map[string]any{"cards": ids}, &out)
}

// CardsForQuery combines FindCards and CardsInfo.
func (c *Client) CardsForQuery(ctx context.Context, query string) ([]Card, error) {
	ids, err := c.FindCards(ctx, query)
	if err != nil {
		return nil, err
	}
	return c.CardsInfo(ctx, ids)
}

// SetDue sets the due position of a new card.
func (c *Client) SetDue(ctx context.Context, cardID int64, due int) error {
	var ok []bool
	params := map[string]any{"card": cardID, "keys": []string{"due"}, "newValues": []int{due}}
	if err := c.call(ctx, "setSpecificValueOfCard", params, &ok); err != nil {
		return err
	}
	for _, v := range ok {
		if !v {
			return fmt.Errorf("anki setSpecificValueOfCard %d: rejected: %w", cardID, internalerr.ErrAnki)
		}
	}
	return nil
}

// ChangeDeck moves cards to deck.
func (c *Client) ChangeDeck(ctx context.Context, cards []int64, deck string) error {
	return c.call(ctx, "changeDeck", map[string]any{"cards": cards, "deck": deck}, nil)
}

func (c *Client) call(ctx context.Context, action string, params, out any) error {
	body, err := json.Marshal(request{Action: action, Version: c.version(), Params: params})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("anki %s: %w", action, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("anki %s: status %d: %w", action, resp.StatusCode, internalerr.ErrAnki)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("anki %s: decode: %w", action, err)
	}
	if payload.Error != nil {
		return fmt.Errorf("anki %s: %s: %w", action, *payload.Error, internalerr.ErrAnki)
	}
	if out == nil || len(payload.Result) == 0 || string(payload.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(payload.Result, out); err != nil {
		return fmt.Errorf("anki %s: decode result: %w", action, err)
	}
	return nil
}

func (c *Client) url() string {
	if c.URL != "" {
		return c.URL
	}
	return DefaultURL
}

func (c *Client) version() int {
	if c.Version != 0 {
		return c.Version
	}
	return DefaultVersion
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}

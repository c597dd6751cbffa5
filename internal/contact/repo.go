package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/novalift/novaliftcom/internal/telemetry/tracing"
)

const contactsFileName = "contacts.json"

// Repo persists contact messages in a single JSON document on disk,
// read and rewritten whole under the repo mutex.
type Repo struct {
	filePath string

	mutex  sync.Mutex
	lastID int
}

func NewRepo(dataDirPath string) (*Repo, error) {
	info, err := os.Stat(dataDirPath)
	if err != nil {
		return nil, fmt.Errorf("stat data dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data dir path [%s] is not a directory", dataDirPath)
	}

	return &Repo{
		filePath: filepath.Join(dataDirPath, contactsFileName),
	}, nil
}

func (r *Repo) Create(ctx context.Context, fields Fields) (_ *Message, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "contactRepo.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if fields.Name == "" || fields.Email == "" || fields.Message == "" {
		return nil, ErrMessageFieldsEmpty
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	newMessage := &Message{
		ID:        r.nextID(records),
		Name:      fields.Name,
		Email:     fields.Email,
		Message:   fields.Message,
		CreatedAt: time.Now(),
	}

	records[strconv.Itoa(newMessage.ID)] = newMessage
	if err := r.save(records); err != nil {
		return nil, err
	}

	r.lastID = newMessage.ID
	return newMessage, nil
}

func (r *Repo) All(ctx context.Context) (_ []*Message, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "contactRepo.all")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	messages := make([]*Message, 0, len(records))
	for _, m := range records {
		messages = append(messages, m)
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].ID < messages[j].ID
	})

	return messages, nil
}

func (r *Repo) load() (map[string]*Message, error) {
	data, err := os.ReadFile(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*Message{}, nil
		}
		return nil, fmt.Errorf("read contacts file: %w", err)
	}

	records := map[string]*Message{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshal contacts file: %w", err)
	}

	return records, nil
}

func (r *Repo) save(records map[string]*Message) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal contacts: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(r.filePath), "contacts-*.json.tmp")
	if err != nil {
		return fmt.Errorf("create temp contacts file: %w", err)
	}

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpFile.Name())
		return fmt.Errorf("write temp contacts file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpFile.Name())
		return fmt.Errorf("close temp contacts file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), r.filePath); err != nil {
		_ = os.Remove(tmpFile.Name())
		return fmt.Errorf("rename temp contacts file: %w", err)
	}

	return nil
}

func (r *Repo) nextID(records map[string]*Message) int {
	maxID := r.lastID
	for _, m := range records {
		if m.ID > maxID {
			maxID = m.ID
		}
	}
	return maxID + 1
}

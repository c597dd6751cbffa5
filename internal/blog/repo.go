package blog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/novalift/novaliftcom/internal/telemetry/tracing"
)

const blogsFileName = "blogs.json"

// Repo persists blog posts in a single JSON document on disk. Every
// operation loads the document, mutates it and writes it back while
// holding the repo mutex, so concurrent requests never interleave a
// read-modify-write cycle.
type Repo struct {
	filePath string

	mutex sync.Mutex
	// lastID is the highest id handed out by this process; ids are never
	// reused even after the post with the highest id gets deleted
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
		filePath: filepath.Join(dataDirPath, blogsFileName),
	}, nil
}

// FileExists reports whether the backing blogs file is already present,
// used at startup to decide whether sample content should be seeded.
func (r *Repo) FileExists() bool {
	_, err := os.Stat(r.filePath)
	return err == nil
}

func (r *Repo) Create(ctx context.Context, fields Fields) (_ *Blog, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "blogRepo.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if fields.Title == "" || fields.Content == "" {
		return nil, ErrBlogFieldsEmpty
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	newBlog := &Blog{
		ID:        r.nextID(records),
		Title:     fields.Title,
		Content:   fields.Content,
		Snippet:   fields.Snippet,
		Sector:    fields.Sector,
		Author:    fields.Author,
		CreatedAt: time.Now(),
	}

	records[strconv.Itoa(newBlog.ID)] = newBlog
	if err := r.save(records); err != nil {
		return nil, err
	}

	r.lastID = newBlog.ID
	return newBlog, nil
}

func (r *Repo) All(ctx context.Context) (_ []*Blog, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "blogRepo.all")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	return sortedByID(records), nil
}

func (r *Repo) BySector(ctx context.Context, sector string) (_ []*Blog, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "blogRepo.bySector")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	var blogs []*Blog
	for _, b := range sortedByID(records) {
		if strings.EqualFold(b.Sector, sector) {
			blogs = append(blogs, b)
		}
	}

	return blogs, nil
}

// TitlesBySector returns the titles of all posts in the given sector,
// compared case-insensitively.
func (r *Repo) TitlesBySector(ctx context.Context, sector string) ([]string, error) {
	blogs, err := r.BySector(ctx, sector)
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(blogs))
	for _, b := range blogs {
		titles = append(titles, b.Title)
	}

	return titles, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Blog, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "blogRepo.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	b, ok := records[strconv.Itoa(id)]
	if !ok {
		return nil, ErrBlogNotFound
	}

	return b, nil
}

// Update replaces the caller-supplied fields of an existing post. The id
// and creation timestamp always survive an update.
func (r *Repo) Update(ctx context.Context, id int, fields Fields) (_ *Blog, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "blogRepo.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if fields.Title == "" || fields.Content == "" {
		return nil, ErrBlogFieldsEmpty
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	key := strconv.Itoa(id)
	existing, ok := records[key]
	if !ok {
		return nil, ErrBlogNotFound
	}

	updated := &Blog{
		ID:        existing.ID,
		Title:     fields.Title,
		Content:   fields.Content,
		Snippet:   fields.Snippet,
		Sector:    fields.Sector,
		Author:    fields.Author,
		CreatedAt: existing.CreatedAt,
	}

	records[key] = updated
	if err := r.save(records); err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "blogRepo.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}

	key := strconv.Itoa(id)
	if _, ok := records[key]; !ok {
		return ErrBlogNotFound
	}

	delete(records, key)
	return r.save(records)
}

// load reads the backing file into memory; a missing file means an empty
// store, any other failure is surfaced. Callers must hold the mutex.
func (r *Repo) load() (map[string]*Blog, error) {
	data, err := os.ReadFile(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*Blog{}, nil
		}
		return nil, fmt.Errorf("read blogs file: %w", err)
	}

	records := map[string]*Blog{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshal blogs file: %w", err)
	}

	return records, nil
}

// save writes the whole document to a temp file and renames it over the
// backing file, so a crash mid-write never leaves a torn document.
// Callers must hold the mutex.
func (r *Repo) save(records map[string]*Blog) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal blogs: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(r.filePath), "blogs-*.json.tmp")
	if err != nil {
		return fmt.Errorf("create temp blogs file: %w", err)
	}

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpFile.Name())
		return fmt.Errorf("write temp blogs file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpFile.Name())
		return fmt.Errorf("close temp blogs file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), r.filePath); err != nil {
		_ = os.Remove(tmpFile.Name())
		return fmt.Errorf("rename temp blogs file: %w", err)
	}

	return nil
}

// nextID picks an id above both everything currently in the file and
// everything this process handed out before, covering the case where the
// post with the highest id was just deleted. Callers must hold the mutex.
func (r *Repo) nextID(records map[string]*Blog) int {
	maxID := r.lastID
	for _, b := range records {
		if b.ID > maxID {
			maxID = b.ID
		}
	}
	return maxID + 1
}

func sortedByID(records map[string]*Blog) []*Blog {
	blogs := make([]*Blog, 0, len(records))
	for _, b := range records {
		blogs = append(blogs, b)
	}
	sort.Slice(blogs, func(i, j int) bool {
		return blogs[i].ID < blogs[j].ID
	})
	return blogs
}

package parser

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-pull-condenser/internal/core/model"
	"github.com/penwyp/go-pull-condenser/internal/util"
)

// Parser reads fight table files.
type Parser struct {
	concurrency int
	mu          sync.Mutex
	cache       map[string]cacheEntry
}

// cacheEntry is a parsed table and the file state it was parsed from.
type cacheEntry struct {
	modTime time.Time
	size    int64
	table   *model.FightTable
}

// ParseResult represents the result of parsing a single file.
type ParseResult struct {
	File  string
	Table *model.FightTable
	Error error
}

// NewParser creates a new Parser instance.
func NewParser(concurrency int) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Parser{
		concurrency: concurrency,
		cache:       make(map[string]cacheEntry),
	}
}

// Parse validates and decodes one fight table document.
func Parse(data []byte) (*model.FightTable, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var table model.FightTable
	if err := sonic.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("decode fight table: %w", err)
	}
	return &table, nil
}

// ParseFile parses the fight table at path. Results are cached until the file's size or
// modification time changes. The returned table is shared; callers must not modify it.
func (p *Parser) ParseFile(path string) (*model.FightTable, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if cached, ok := p.cache[path]; ok && cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() {
		p.mu.Unlock()
		return cached.table, nil
	}
	p.mu.Unlock()

	util.LogDebug("start parsing file", util.F("file", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	table, err := Parse(data)
	if err != nil {
		util.LogDebug("failed to parse file", util.F("file", path), util.F("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	util.LogDebug("parsed file",
		util.F("file", path),
		util.F("fight", table.FightID),
		util.F("rows", len(table.Rows)),
		util.F("casts", len(table.Casts)),
		util.F("buff_intervals", len(table.BuffIntervals)),
	)

	p.mu.Lock()
	p.cache[path] = cacheEntry{modTime: info.ModTime(), size: info.Size(), table: table}
	p.mu.Unlock()

	return table, nil
}

// Invalidate drops the cached table for path.
func (p *Parser) Invalidate(path string) {
	p.mu.Lock()
	delete(p.cache, path)
	p.mu.Unlock()
}

// ParseFiles parses multiple files concurrently and returns a channel of ParseResult.
func (p *Parser) ParseFiles(files []string) <-chan ParseResult {
	start := time.Now()
	results := make(chan ParseResult, len(files))
	var wg sync.WaitGroup

	util.LogDebugf("Start concurrent parsing of %d files, concurrency: %d", len(files), p.concurrency)

	semaphore := make(chan struct{}, p.concurrency)

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			table, err := p.ParseFile(f)
			results <- ParseResult{
				File:  f,
				Table: table,
				Error: err,
			}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
		util.LogDebugf("Concurrent parsing finished, total duration: %v", time.Since(start))
	}()

	return results
}

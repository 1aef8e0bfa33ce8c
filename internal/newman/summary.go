// Package newman models the run summary a Newman run hands to its reporters
// on completion, as written by Newman's JSON export.
package newman

import (
	"encoding/json"
	"fmt"
	"io"
)

// RunSummary is the completed run: the collection that was executed and the
// ordered request executions.
type RunSummary struct {
	Collection Collection `json:"collection"`
	Run        Run        `json:"run"`
}

// Collection is the executed collection. Items form a tree, folders carry
// their children in Items.
type Collection struct {
	Info  Info   `json:"info"`
	Items []Item `json:"item"`
}

// Info holds collection metadata
type Info struct {
	Name string `json:"name"`
}

// Item is a request or a folder of the collection tree
type Item struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []Item `json:"item,omitempty"`
}

// IsFolder reports whether the item groups other items
func (i Item) IsFolder() bool {
	return i.Items != nil
}

// Run holds the executions in the order they happened
type Run struct {
	Executions []Execution `json:"executions"`
}

// Execution is one request execution with its assertions
type Execution struct {
	Item       ExecutionItem `json:"item"`
	Response   *Response     `json:"response,omitempty"`
	Assertions []Assertion   `json:"assertions,omitempty"`
}

// ExecutionItem identifies the request that was executed
type ExecutionItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Ancestors are the names of the enclosing folders, outermost first.
	// They are resolved from the collection tree and not part of the export.
	Ancestors []string `json:"-"`
}

// Response is the received response. Newman leaves it out when the
// request never completed.
type Response struct {
	// ResponseTime in milliseconds
	ResponseTime float64 `json:"responseTime"`
}

// Assertion is one evaluated test script assertion
type Assertion struct {
	Assertion string          `json:"assertion"`
	Skipped   bool            `json:"skipped,omitempty"`
	Error     *AssertionError `json:"error,omitempty"`
}

// Failed reports whether the assertion carries an error
func (a Assertion) Failed() bool {
	return a.Error != nil
}

// AssertionError describes a failed assertion
type AssertionError struct {
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// Parse decodes a Newman JSON export and resolves the ancestor chain of
// every execution.
func Parse(r io.Reader) (*RunSummary, error) {
	var summary RunSummary
	if err := json.NewDecoder(r).Decode(&summary); err != nil {
		return nil, fmt.Errorf("failed to decode run summary: %w", err)
	}

	summary.ResolveAncestors()

	return &summary, nil
}

// ResolveAncestors fills ExecutionItem.Ancestors from the collection tree.
// Items are matched by id, falling back to the item name when exactly one
// item carries it. Unmatched executions keep an empty chain.
func (s *RunSummary) ResolveAncestors() {
	idx := itemIndex{byID: map[string][]string{}, byName: map[string][]string{}, names: map[string]int{}}
	idx.add(s.Collection.Items, nil)

	for i := range s.Run.Executions {
		item := &s.Run.Executions[i].Item
		if chain, ok := idx.byID[item.ID]; ok && item.ID != "" {
			item.Ancestors = chain
			continue
		}
		if idx.names[item.Name] == 1 {
			item.Ancestors = idx.byName[item.Name]
		}
	}
}

// itemIndex maps request ids and names to their folder chains
type itemIndex struct {
	byID   map[string][]string
	byName map[string][]string
	names  map[string]int
}

func (idx *itemIndex) add(items []Item, parents []string) {
	for _, item := range items {
		if item.IsFolder() {
			chain := append(append([]string{}, parents...), item.Name)
			idx.add(item.Items, chain)
			continue
		}

		chain := append([]string{}, parents...)
		if item.ID != "" {
			idx.byID[item.ID] = chain
		}
		idx.names[item.Name]++
		idx.byName[item.Name] = chain
	}
}

package messages

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"go-upwork-opener/internal/extractor"
	"go-upwork-opener/internal/sequencer"
)

// ErrTransport means a request could not be delivered or answered. It is never
// used for "the page has no jobs".
var ErrTransport = errors.New("could not communicate with the page")

// PageSource is the rendered page the extractor reads.
type PageSource interface {
	URL() string
	HTML(ctx context.Context) (string, error)
}

// HandleExtract answers an extraction request from src. A page that cannot be
// read is a transport failure; a page that cannot be parsed is {ok:false}.
func HandleExtract(ctx context.Context, src PageSource, req ExtractRequest) (ExtractResponse, error) {
	content, err := src.HTML(ctx)
	if err != nil {
		return ExtractResponse{}, fmt.Errorf("%w: read page: %w", ErrTransport, err)
	}

	res, err := extractor.ExtractHTML(strings.NewReader(content), src.URL(), req.MaxAge())
	if err != nil {
		log.Printf("⚠️ Extraction failed on %s: %v", src.URL(), err)
		return ExtractResponse{OK: false}, nil
	}
	return NewExtractResponse(res), nil
}

// HandleOpen answers an open request. A failed tab creation is reported in the
// response with the partial count; a severed call (ctx done) is a transport
// failure since the caller cannot rely on the count.
func HandleOpen(ctx context.Context, tabs sequencer.TabOpener, req OpenRequest) (OpenResponse, error) {
	opened, err := sequencer.Open(ctx, tabs, req.Resolve())
	if err != nil {
		if ctx.Err() != nil {
			return OpenResponse{}, fmt.Errorf("%w: open severed after %d tabs: %w", ErrTransport, opened, err)
		}
		return OpenResponse{OK: false, Opened: opened, Error: err.Error()}, nil
	}
	return OpenResponse{OK: true, Opened: opened}, nil
}

// LocalTransport delivers both message kinds in-process.
type LocalTransport struct {
	Page PageSource
	Tabs sequencer.TabOpener
}

func (t *LocalTransport) PageURL() string {
	if t.Page == nil {
		return ""
	}
	return t.Page.URL()
}

func (t *LocalTransport) Extract(ctx context.Context, req ExtractRequest) (ExtractResponse, error) {
	if t.Page == nil {
		return ExtractResponse{}, fmt.Errorf("%w: no page attached", ErrTransport)
	}
	return HandleExtract(ctx, t.Page, req)
}

func (t *LocalTransport) Open(ctx context.Context, req OpenRequest) (OpenResponse, error) {
	if t.Tabs == nil {
		return OpenResponse{}, fmt.Errorf("%w: no browser attached", ErrTransport)
	}
	return HandleOpen(ctx, t.Tabs, req)
}

// StaticPage is an already captured page snapshot.
type StaticPage struct {
	PageURL string
	Content string
}

func (p StaticPage) URL() string { return p.PageURL }

func (p StaticPage) HTML(ctx context.Context) (string, error) {
	return p.Content, ctx.Err()
}

// Package serve answers matching-list queries over an NDJSON stream.
package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/praetorian-inc/hyperlane-cli/pkg/matchlist"
	"github.com/praetorian-inc/hyperlane-cli/pkg/types"
)

// Version is the server protocol version
const Version = "1.0.0"

// Server evaluates messages against a matching list
type Server struct {
	list    matchlist.MatchingList
	encoder *json.Encoder
	decoder *json.Decoder
}

// NewServer creates a new streaming server
func NewServer(list matchlist.MatchingList, in io.Reader, out io.Writer) *Server {
	return &Server{
		list:    list,
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
	}
}

// Run starts the server main loop
func (s *Server) Run(ctx context.Context) error {
	s.sendReady()

	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Process requests until stdin closes or context cancels
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Drain any pending requests before handling EOF
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(req) {
						return nil
					}
				default:
					if err == io.EOF {
						return nil
					}
					s.sendError("decode", err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(req Request) bool {
	switch req.Type {
	case "match":
		s.handleMatch(req.Payload)
	case "match_batch":
		s.handleMatchBatch(req.Payload)
	case "close":
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	s.send("ready", ReadyData{Version: Version, Rules: s.list.Len()})
}

func (s *Server) handleMatch(payload json.RawMessage) {
	var p MatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("match", err.Error())
		return
	}
	s.send("match", s.evaluate(p))
}

func (s *Server) handleMatchBatch(payload json.RawMessage) {
	var p MatchBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("match_batch", err.Error())
		return
	}

	result := MatchBatchResult{Results: make([]MatchResult, 0, len(p.Items))}
	for _, item := range p.Items {
		result.Results = append(result.Results, s.evaluate(item))
	}
	s.send("match_batch", result)
}

func (s *Server) evaluate(info types.MessageInfo) MatchResult {
	idx, ok := s.list.FirstMatch(info)
	if !ok {
		return MatchResult{}
	}
	if idx < 0 {
		return MatchResult{Matched: true}
	}
	return MatchResult{Matched: true, Rule: &idx}
}

func (s *Server) send(reqType string, v any) {
	data, _ := json.Marshal(v)
	s.encoder.Encode(Response{
		Success: true,
		Type:    reqType,
		Data:    data,
	})
}

func (s *Server) sendError(reqType, msg string) {
	s.encoder.Encode(Response{
		Success: false,
		Type:    reqType,
		Error:   msg,
	})
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/chat"
)

type taskRequest struct {
	Request string `json:"request"`
}

// FileInfo describes one export in the output directory.
type FileInfo struct {
	Created time.Time `json:"created"`
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Request = strings.TrimSpace(req.Request)
	if req.Request == "" {
		writeError(w, http.StatusBadRequest, "request is required")
		return
	}

	result := s.runner.ExecuteTask(r.Context(), req.Request)
	s.logger.Infof("api task %s finished: success=%t actions=%d", result.ID, result.Success, result.ActionsExecuted)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListConversations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.conversations.List())
}

func (s *Server) handleNewConversation(w http.ResponseWriter, _ *http.Request) {
	conv := s.conversations.NewConversation()
	writeJSON(w, http.StatusCreated, conv.Snapshot())
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.conversations.Get(r.PathValue("id"))
	if err != nil {
		s.conversationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conv.Snapshot())
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	if err := s.conversations.Delete(r.PathValue("id")); err != nil {
		s.conversationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) conversationError(w http.ResponseWriter, err error) {
	if errors.Is(err, chat.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	s.logger.Errorf("conversation request failed: %v", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

// ListFiles returns the regular files in dir, newest first. A missing
// directory has no files.
func ListFiles(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []FileInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{Name: e.Name(), Size: info.Size(), Created: info.ModTime()})
	}
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Created.After(files[j].Created)
	})
	return files, nil
}

func (s *Server) handleListFiles(w http.ResponseWriter, _ *http.Request) {
	files, err := ListFiles(s.outputDir)
	if err != nil {
		s.logger.Errorf("listing exports: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, files)
}

// exportPath resolves name inside the output directory. Names with path
// separators or a leading dot are rejected.
func (s *Server) exportPath(name string) (string, bool) {
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", false
	}
	return filepath.Join(s.outputDir, name), true
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	path, ok := s.exportPath(r.PathValue("name"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid file path")
		return
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", info.Name()))
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

package server

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/meditationhr/models"
)

// actionRequest is the JSON body of POST /api/actions.
type actionRequest struct {
	Type       string   `json:"type"`
	Technique  string   `json:"technique,omitempty"`
	Enabled    bool     `json:"enabled,omitempty"`
	Techniques []string `json:"techniques,omitempty"`
	Gender     string   `json:"gender,omitempty"`
	View       string   `json:"view,omitempty"`
	ID         string   `json:"id,omitempty"`
}

func decodeAction(r io.Reader) (models.Action, error) {
	var req actionRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid action body: %w", err)
	}

	switch req.Type {
	case "toggle_technique":
		if req.Technique == "" {
			return nil, fmt.Errorf("toggle_technique needs a technique")
		}
		return models.ToggleTechnique{Technique: req.Technique, Enabled: req.Enabled}, nil
	case "set_techniques":
		return models.SetTechniques{Techniques: req.Techniques}, nil
	case "set_gender":
		g, err := models.ParseGender(req.Gender)
		if err != nil {
			return nil, err
		}
		return models.SetGender{Gender: g}, nil
	case "set_view":
		v, err := models.ParseView(req.View)
		if err != nil {
			return nil, err
		}
		return models.SetView{View: v}, nil
	case "select":
		if req.ID == "" {
			return nil, fmt.Errorf("select needs an id")
		}
		return models.SelectSeries{ID: req.ID}, nil
	case "clear_selection":
		return models.ClearSelection{}, nil
	}
	return nil, fmt.Errorf("unknown action type %q", req.Type)
}

// Package composition holds the declarative scene and timing definitions
// the external rendering engine consumes. Definitions are data, not logic:
// each template names its scenes, their durations and transitions, and the
// asset slot each scene binds.
package composition

import (
	"errors"
	"fmt"

	"github.com/wondertales/video-service/internal/types"
	"github.com/wondertales/video-service/internal/types/assets"
)

// Scene is one page of a story template.
type Scene struct {
	ID            string  `json:"id"`
	Page          int     `json:"page"`
	DurationSec   float64 `json:"duration_sec"`
	Transition    string  `json:"transition"`
	TransitionSec float64 `json:"transition_sec"`
	ImageSlot     string  `json:"image_slot"`
	AudioSlot     string  `json:"audio_slot"`
}

// Template is a complete composition definition.
type Template struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Scenes      []Scene `json:"scenes"`
	MusicSlot   string  `json:"music_slot"`
	MusicVolume float64 `json:"music_volume"`
}

// WishButton returns the 9-page Wish-Button story template. The opening
// and closing pages hold a little longer than the inner pages.
func WishButton() Template {
	scenes := make([]Scene, 0, assets.PageCount)
	for page := 1; page <= assets.PageCount; page++ {
		duration := 8.0
		if page == 1 || page == assets.PageCount {
			duration = 10.0
		}
		scenes = append(scenes, Scene{
			ID:            fmt.Sprintf("wish-button-page%d", page),
			Page:          page,
			DurationSec:   duration,
			Transition:    "crossfade",
			TransitionSec: 0.5,
			ImageSlot:     fmt.Sprintf("page%d_image", page),
			AudioSlot:     fmt.Sprintf("page%d_audio", page),
		})
	}
	return Template{
		ID:          "wish-button",
		Name:        "The Wish Button",
		Scenes:      scenes,
		MusicSlot:   assets.BackgroundMusicSlot,
		MusicVolume: 0.25,
	}
}

// RenderScene is a scene with its slots resolved to media URLs.
type RenderScene struct {
	ID            string  `json:"id"`
	DurationSec   float64 `json:"duration_sec"`
	Transition    string  `json:"transition"`
	TransitionSec float64 `json:"transition_sec"`
	ImageURL      string  `json:"image_url"`
	AudioURL      string  `json:"audio_url"`
}

// Payload is the document submitted to the rendering engine.
type Payload struct {
	ProjectID   string        `json:"project_id"`
	Template    string        `json:"template"`
	Title       string        `json:"title"`
	Scenes      []RenderScene `json:"scenes"`
	MusicURL    string        `json:"music_url,omitempty"`
	MusicVolume float64       `json:"music_volume"`
}

// ErrIncomplete reports a template slot with no media behind it.
var ErrIncomplete = errors.New("composition incomplete")

// BuildPayload resolves the template's slots against the project's asset
// view model. Every page needs both its image and audio before a render
// can be submitted; the background-music slot is always populated by the
// refresh routine so it is read without a completeness check.
func BuildPayload(project types.StoryProject, wa assets.WishButtonAssets) (Payload, error) {
	tmpl := WishButton()

	payload := Payload{
		ProjectID:   project.ID,
		Template:    tmpl.ID,
		Title:       project.Title,
		MusicURL:    wa[tmpl.MusicSlot].URL,
		MusicVolume: tmpl.MusicVolume,
	}

	for _, scene := range tmpl.Scenes {
		image := wa[scene.ImageSlot]
		audio := wa[scene.AudioSlot]
		if image.URL == "" {
			return Payload{}, fmt.Errorf("%w: slot %s has no media", ErrIncomplete, scene.ImageSlot)
		}
		if audio.URL == "" {
			return Payload{}, fmt.Errorf("%w: slot %s has no media", ErrIncomplete, scene.AudioSlot)
		}
		payload.Scenes = append(payload.Scenes, RenderScene{
			ID:            scene.ID,
			DurationSec:   scene.DurationSec,
			Transition:    scene.Transition,
			TransitionSec: scene.TransitionSec,
			ImageURL:      image.URL,
			AudioURL:      audio.URL,
		})
	}

	return payload, nil
}

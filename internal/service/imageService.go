package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/user/hebrew-imagegen/internal/entity"
	"github.com/user/hebrew-imagegen/internal/pkg/events"
	"github.com/user/hebrew-imagegen/internal/pkg/overlay"
)

// Uploads larger than this on either side get scaled down before use.
const maxUploadDimension = 2048

// normalizeUpload fits oversized uploads into maxUploadDimension, keeping the
// aspect ratio. Uploads already within bounds pass through untouched.
func normalizeUpload(data []byte) []byte {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || (cfg.Width <= maxUploadDimension && cfg.Height <= maxUploadDimension) {
		return data
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}

	fitted := imaging.Fit(img, maxUploadDimension, maxUploadDimension, imaging.Lanczos)
	var buf bytes.Buffer
	if err := png.Encode(&buf, fitted); err != nil {
		return data
	}
	return buf.Bytes()
}

func (s *imageService) Generate(ctx context.Context, in GenerateInput) (*GenerateOutput, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if len(in.Upload) > 0 {
		in.Upload = normalizeUpload(in.Upload)
	}

	var (
		img       []byte
		err       error
		eventType string
	)
	switch {
	case len(in.Upload) > 0 && prompt != "":
		img, err = s.provider.Edit(ctx, in.Upload, prompt, in.AspectRatio)
		eventType = events.EventEdited
	case len(in.Upload) > 0:
		// No instruction: keep the uploaded image as-is.
		img = in.Upload
		eventType = events.EventGenerated
	case prompt != "":
		img, err = s.provider.Generate(ctx, prompt, in.AspectRatio)
		eventType = events.EventGenerated
	default:
		return nil, entity.ErrPromptRequired
	}
	if err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDecodeImage, err)
	}

	id, err := s.repo.Put(ctx, img)
	if err != nil {
		return nil, err
	}

	s.publish(events.ImageEvent{
		Type:    eventType,
		ImageID: id,
		Width:   cfg.Width,
		Height:  cfg.Height,
		At:      time.Now(),
	})

	return &GenerateOutput{
		ID:        id,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Image:     img,
		Positions: overlay.SuggestPositions(cfg.Width, cfg.Height),
	}, nil
}

func (s *imageService) AddText(ctx context.Context, id string, style entity.TextStyle) (*AddTextOutput, error) {
	data, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rendered, err := s.renderer.AddText(data, style)
	if err != nil {
		return nil, err
	}

	newID, err := s.repo.Replace(ctx, id, rendered)
	if err != nil {
		return nil, err
	}

	s.publish(events.ImageEvent{
		Type:    events.EventTextAdded,
		ImageID: newID,
		At:      time.Now(),
	})

	return &AddTextOutput{ID: newID, Image: rendered}, nil
}

func (s *imageService) SuggestTexts(ctx context.Context, id, productDescription string) ([]string, error) {
	var img []byte
	if id != "" {
		data, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		img = data
	}
	return s.provider.SuggestTexts(ctx, img, productDescription)
}

func (s *imageService) GetImage(ctx context.Context, id string) ([]byte, error) {
	return s.repo.Get(ctx, id)
}

func (s *imageService) publish(event events.ImageEvent) {
	if err := s.producer.Publish(event); err != nil {
		logrus.WithError(err).Warn("image event not published")
	}
}

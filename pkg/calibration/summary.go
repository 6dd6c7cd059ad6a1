package calibration

import (
	"context"
	"fmt"

	"github.com/teslashibe/go-aura/pkg/emotion"
)

// EmotionSummary aggregates the samples classified as one dominant emotion.
type EmotionSummary struct {
	Dominant      emotion.Emotion `json:"dominant"`
	Count         int             `json:"count"`
	MeanIntensity float64         `json:"mean_intensity"`
	MeanRaw       emotion.Scores  `json:"mean_raw"`
}

// Summary describes a recording session.
type Summary struct {
	Session   string           `json:"session"`
	Total     int              `json:"total"`
	Dropped   uint64           `json:"dropped"`
	ByEmotion []EmotionSummary `json:"by_emotion"`
}

// Summary aggregates the samples written so far in this session, one
// entry per dominant emotion in canonical order. Emotions with no samples
// are omitted.
func (r *Recorder) Summary(ctx context.Context) (*Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT dominant, COUNT(*), AVG(intensity),
			AVG(raw_happy), AVG(raw_sad), AVG(raw_angry), AVG(raw_surprised), AVG(raw_neutral)
		FROM samples
		WHERE session_id = ?
		GROUP BY dominant
	`, r.session)
	if err != nil {
		return nil, fmt.Errorf("query calibration summary: %w", err)
	}
	defer rows.Close()

	var found [emotion.Count]*EmotionSummary
	for rows.Next() {
		var name string
		var es EmotionSummary
		if err := rows.Scan(&name, &es.Count, &es.MeanIntensity,
			&es.MeanRaw[emotion.Happy], &es.MeanRaw[emotion.Sad], &es.MeanRaw[emotion.Angry],
			&es.MeanRaw[emotion.Surprised], &es.MeanRaw[emotion.Neutral]); err != nil {
			return nil, fmt.Errorf("scan calibration summary: %w", err)
		}
		e, err := emotion.ParseEmotion(name)
		if err != nil {
			r.logger.Warn("skipping unknown emotion in samples", "name", name)
			continue
		}
		es.Dominant = e
		found[e] = &es
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read calibration summary: %w", err)
	}

	s := &Summary{
		Session:   r.session,
		Dropped:   r.Dropped(),
		ByEmotion: make([]EmotionSummary, 0, emotion.Count),
	}
	for _, e := range emotion.All {
		if es := found[e]; es != nil {
			s.Total += es.Count
			s.ByEmotion = append(s.ByEmotion, *es)
		}
	}
	return s, nil
}

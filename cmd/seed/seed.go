package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/service"
	"gopkg.in/yaml.v3"
)

// Fixtures is the YAML document applied by the seeder.
type Fixtures struct {
	Admin            *AdminFixture     `yaml:"admin"`
	Positions        []string          `yaml:"positions"`
	Terms            []TermFixture     `yaml:"terms"`
	SourceCategories []CategoryFixture `yaml:"source_categories"`
}

// AdminFixture describes the first administrator. Environment variables in
// the password are expanded, so the secret can stay out of the file.
type AdminFixture struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// TermFixture is a dictionary term with its related word forms.
type TermFixture struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Related     []string `yaml:"related"`
}

// CategoryFixture is a source category with its illustration.
type CategoryFixture struct {
	Title string       `yaml:"title"`
	Image ImageFixture `yaml:"image"`
}

// ImageFixture points at an image file relative to the fixture file.
type ImageFixture struct {
	Title    string `yaml:"title"`
	Alt      string `yaml:"alt"`
	MimeType string `yaml:"mime_type"`
	File     string `yaml:"file"`
}

// LoadFixtures decodes a fixture document. Unknown keys are rejected.
func LoadFixtures(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixtures
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode fixtures: %w", err)
	}
	return &f, nil
}

// Summary counts the records created by one Apply call.
type Summary struct {
	AdminCreated     bool
	Positions        int
	Terms            int
	RelatedTerms     int
	SourceCategories int
}

// seeder applies fixtures through the services. Records that already exist
// (matched by title or email) are left untouched, so seeding can be rerun.
type seeder struct {
	services *service.Set
	baseDir  string
	logger   *slog.Logger
}

func newSeeder(services *service.Set, baseDir string, logger *slog.Logger) *seeder {
	return &seeder{
		services: services,
		baseDir:  baseDir,
		logger:   logger.With(slog.String("component", "seeder")),
	}
}

// Apply creates every missing fixture record.
func (s *seeder) Apply(ctx context.Context, f *Fixtures) (Summary, error) {
	var sum Summary

	if f.Admin != nil {
		created, err := s.seedAdmin(ctx, f.Admin)
		if err != nil {
			return sum, err
		}
		sum.AdminCreated = created
	}

	n, err := s.seedPositions(ctx, f.Positions)
	if err != nil {
		return sum, err
	}
	sum.Positions = n

	sum.Terms, sum.RelatedTerms, err = s.seedTerms(ctx, f.Terms)
	if err != nil {
		return sum, err
	}

	sum.SourceCategories, err = s.seedCategories(ctx, f.SourceCategories)
	if err != nil {
		return sum, err
	}

	s.logger.Info("seeding finished",
		slog.Bool("admin_created", sum.AdminCreated),
		slog.Int("positions", sum.Positions),
		slog.Int("terms", sum.Terms),
		slog.Int("related_terms", sum.RelatedTerms),
		slog.Int("source_categories", sum.SourceCategories))
	return sum, nil
}

func (s *seeder) seedAdmin(ctx context.Context, a *AdminFixture) (bool, error) {
	password := os.ExpandEnv(a.Password)
	if password == "" {
		return false, fmt.Errorf("admin %s: password is empty", a.Email)
	}
	user, created, err := s.services.Users.EnsureUser(ctx, a.Email, password, domain.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("admin %s: %w", a.Email, err)
	}
	if !created && user.Role != domain.RoleAdmin {
		logger.FromContextOrDefault(ctx, s.logger).Warn("existing seed user is not an admin",
			slog.String("user_id", user.ID.String()),
			slog.String("role", string(user.Role)))
	}
	return created, nil
}

func (s *seeder) seedPositions(ctx context.Context, titles []string) (int, error) {
	existing, err := s.services.Team.GetAllPositions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list positions: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[titleKey(p.Title)] = true
	}

	created := 0
	for _, title := range titles {
		if seen[titleKey(title)] {
			continue
		}
		if err := s.services.Team.CreatePosition(ctx, &domain.Position{Title: title}); err != nil {
			return created, fmt.Errorf("position %q: %w", title, err)
		}
		seen[titleKey(title)] = true
		created++
	}
	return created, nil
}

func (s *seeder) seedTerms(ctx context.Context, terms []TermFixture) (int, int, error) {
	existing, err := s.services.Terms.GetAll(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list terms: %w", err)
	}
	byTitle := make(map[string]*domain.Term, len(existing))
	for _, t := range existing {
		byTitle[titleKey(t.Title)] = t
	}

	var createdTerms, createdRelated int
	for _, tf := range terms {
		term, ok := byTitle[titleKey(tf.Title)]
		if !ok {
			term = &domain.Term{Title: tf.Title, Description: tf.Description}
			if err := s.services.Terms.Create(ctx, term); err != nil {
				return createdTerms, createdRelated, fmt.Errorf("term %q: %w", tf.Title, err)
			}
			byTitle[titleKey(tf.Title)] = term
			createdTerms++
		}

		related, err := s.services.Terms.GetRelated(ctx, term.ID)
		if err != nil {
			return createdTerms, createdRelated, fmt.Errorf("term %q: %w", tf.Title, err)
		}
		words := make(map[string]bool, len(related))
		for _, r := range related {
			words[titleKey(r.Word)] = true
		}
		for _, word := range tf.Related {
			if words[titleKey(word)] {
				continue
			}
			if err := s.services.Terms.CreateRelated(ctx, &domain.RelatedTerm{Word: word, TermID: term.ID}); err != nil {
				return createdTerms, createdRelated, fmt.Errorf("related word %q of %q: %w", word, tf.Title, err)
			}
			words[titleKey(word)] = true
			createdRelated++
		}
	}
	return createdTerms, createdRelated, nil
}

func (s *seeder) seedCategories(ctx context.Context, categories []CategoryFixture) (int, error) {
	existing, err := s.services.Sources.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list source categories: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[titleKey(c.Title)] = true
	}

	created := 0
	for _, cf := range categories {
		if seen[titleKey(cf.Title)] {
			continue
		}
		content, err := s.readImage(cf.Image.File)
		if err != nil {
			return created, fmt.Errorf("source category %q: %w", cf.Title, err)
		}
		img, err := s.services.Images.Create(ctx, service.ImageInput{
			Title:    cf.Image.Title,
			Alt:      cf.Image.Alt,
			Base64:   content,
			MimeType: cf.Image.MimeType,
		})
		if err != nil {
			return created, fmt.Errorf("source category %q image: %w", cf.Title, err)
		}
		category := &domain.SourceLinkCategory{Title: cf.Title, ImageID: img.ID}
		if err := s.services.Sources.Create(ctx, category); err != nil {
			return created, fmt.Errorf("source category %q: %w", cf.Title, err)
		}
		seen[titleKey(cf.Title)] = true
		created++
	}
	return created, nil
}

func (s *seeder) readImage(name string) (string, error) {
	if name == "" {
		return "", errors.New("image file is required")
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(s.baseDir, name)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

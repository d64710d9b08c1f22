package markdown

import (
	"strings"
	"testing"
	"time"
)

func TestParseFrontMatterFullEnvelope(t *testing.T) {
	source := []byte(`---
title: Getting Started
slug: start
order: 2
description: First steps.
tags:
  - intro
  - setup
hidden: true
author: docs-team
---

# Getting Started

Welcome.
`)

	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("parse frontmatter: %v", err)
	}

	if meta.Title != "Getting Started" {
		t.Fatalf("expected title 'Getting Started', got %q", meta.Title)
	}
	if meta.Slug != "start" {
		t.Fatalf("expected slug 'start', got %q", meta.Slug)
	}
	if meta.Order != 2 {
		t.Fatalf("expected order 2, got %d", meta.Order)
	}
	if meta.Description != "First steps." {
		t.Fatalf("unexpected description %q", meta.Description)
	}
	if len(meta.Tags) != 2 || meta.Tags[0] != "intro" {
		t.Fatalf("unexpected tags %v", meta.Tags)
	}
	if !meta.Hidden {
		t.Fatal("expected hidden to be true")
	}
	if meta.Custom["author"] != "docs-team" {
		t.Fatalf("expected custom author field, got %v", meta.Custom)
	}
	if !strings.Contains(string(body), "# Getting Started") {
		t.Fatalf("body should keep the heading, got %q", string(body))
	}
	if strings.Contains(string(body), "title:") {
		t.Fatalf("frontmatter should be stripped from body, got %q", string(body))
	}
}

func TestParseFrontMatterDefaultsWhenAbsent(t *testing.T) {
	source := []byte("# Just a heading\n\nNo frontmatter here.\n")

	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("parse frontmatter: %v", err)
	}
	if meta.Order != DefaultOrder {
		t.Fatalf("expected default order %d, got %d", DefaultOrder, meta.Order)
	}
	if meta.Title != "" {
		t.Fatalf("expected empty title, got %q", meta.Title)
	}
	if string(body) != string(source) {
		t.Fatal("body should be the untouched source when no frontmatter present")
	}
}

func TestParseFrontMatterDefaultOrderWhenOmitted(t *testing.T) {
	source := []byte("---\ntitle: Untagged\n---\nbody\n")

	meta, _, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("parse frontmatter: %v", err)
	}
	if meta.Order != DefaultOrder {
		t.Fatalf("expected default order %d, got %d", DefaultOrder, meta.Order)
	}
}

func TestBuildDocumentTitleFallbacks(t *testing.T) {
	modified := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		source string
		path   string
		want   string
	}{
		{"frontmatter wins", "---\ntitle: Configured\n---\n# Heading\n", "guides/01-setup", "Configured"},
		{"h1 fallback", "# From Heading\n\nbody\n", "guides/01-setup", "From Heading"},
		{"filename fallback", "plain text only\n", "guides/01-setup", "Setup"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := BuildDocument("/docs/guides/01-setup.md", tc.path, []byte(tc.source), modified)
			if err != nil {
				t.Fatalf("build document: %v", err)
			}
			if doc.Metadata.Title != tc.want {
				t.Fatalf("expected title %q, got %q", tc.want, doc.Metadata.Title)
			}
			if len(doc.Checksum) == 0 {
				t.Fatal("expected a checksum")
			}
			if !doc.LastModified.Equal(modified) {
				t.Fatalf("expected last modified %v, got %v", modified, doc.LastModified)
			}
		})
	}
}

func TestHumanizeFilename(t *testing.T) {
	cases := map[string]string{
		"01-getting-started": "Getting Started",
		"2_api_reference":    "Api Reference",
		"faq":                "Faq",
		"advanced-usage":     "Advanced Usage",
		"10_setup":           "Setup",
	}
	for input, want := range cases {
		if got := HumanizeFilename(input); got != want {
			t.Fatalf("HumanizeFilename(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestExtractH1(t *testing.T) {
	if got := ExtractH1([]byte("intro text\n\n# The Title\n\n## Subtitle\n")); got != "The Title" {
		t.Fatalf("expected 'The Title', got %q", got)
	}
	if got := ExtractH1([]byte("## Only a subtitle\n")); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

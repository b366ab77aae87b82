package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
	if enabled[0].HTTP.Method != "POST" || enabled[0].HTTP.TimeoutSeconds != 5 {
		t.Fatalf("http defaults not applied: %#v", enabled[0].HTTP)
	}
}

func TestLoadRegistryQueueTypes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.json")
	raw := `{
  "publishers": [
    {"id": "q", "type": "SQS", "sqs": {"uri": " https://sqs.us-east-1.amazonaws.com/1/q ", "region": "us-east-1", "access_key_id": "AKIA", "secret_access_key": "s"}},
    {"id": "t", "type": "sns", "sns": {"topic_arn": "arn:aws:sns:us-east-1:1:t", "region": "us-east-1"}},
    {"id": "p", "type": "pubsub", "pubsub": {"project_id": "proj", "topic": "droplets"}}
  ]
}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	q, ok := reg.ByID("q")
	if !ok || q.Type != TypeSQS || q.SQS.QueueURL != "https://sqs.us-east-1.amazonaws.com/1/q" {
		t.Fatalf("unexpected sqs config %#v", q)
	}
	if q.SQS.AccessKeyID != "AKIA" {
		t.Fatalf("static credentials not decoded: %#v", q.SQS.AWSCredentials)
	}
	if p, ok := reg.ByID("p"); !ok || p.PubSub.Topic != "droplets" {
		t.Fatalf("unexpected pubsub config %#v", p)
	}
	if len(reg.All()) != 3 {
		t.Fatalf("expected 3 publishers")
	}
}

func TestLoadRegistryYAMLInlineCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yml")
	raw := `
publishers:
  - id: topic
    type: sns
    sns:
      topic_arn: arn:aws:sns:eu-west-1:1:t
      region: eu-west-1
      access_key_id: AKIA
      secret_access_key: secret
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, _ := reg.ByID("topic")
	if cfg.SNS.AccessKeyID != "AKIA" || cfg.SNS.SecretAccessKey != "secret" {
		t.Fatalf("inline credentials not decoded: %#v", cfg.SNS)
	}
}

func TestLoadRegistryDuplicateID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := `
publishers:
  - id: dup
    type: http
    http:
      url: https://a.example
  - id: dup
    type: http
    http:
      url: https://b.example
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidatePublisherConfigRejectsMissingHTTP(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:   "h1",
		Type: TypeHTTP,
	})
	if err == nil {
		t.Fatalf("expected validation error for missing http block")
	}
}

func TestValidatePublisherConfigQueueRequirements(t *testing.T) {
	cases := []PublisherConfig{
		{ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "us-east-1"}},
		{ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{TopicARN: "arn"}},
		{ID: "p", Type: TypePubSub},
		{ID: "p", Type: TypePubSub, PubSub: &PubSubPublisherConfig{ProjectID: "proj"}},
		{ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "u"}},
	}
	for _, c := range cases {
		if err := validatePublisherConfig(c); err == nil {
			t.Fatalf("expected validation error for %#v", c)
		}
	}
}

func TestLoadRegistryEventFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := `
publishers:
  - id: audit
    type: http
    events: [" Droplet.Deleted ", droplet.created, droplet.deleted]
    http:
      url: https://audit.example
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, _ := reg.ByID("audit")
	if len(cfg.Events) != 2 {
		t.Fatalf("expected normalized, deduplicated events, got %v", cfg.Events)
	}
	if !cfg.Accepts(EventDropletDeleted) || cfg.Accepts(EventDropletDiscovered) {
		t.Fatalf("unexpected Accepts results for %v", cfg.Events)
	}
	if !(PublisherConfig{}).Accepts(EventDropletDiscovered) {
		t.Fatalf("empty events list should accept everything")
	}
}

func TestValidatePublisherConfigRejectsUnknownEvent(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:     "h1",
		Type:   TypeHTTP,
		Events: []EventType{"droplet.resized"},
		HTTP:   &HTTPPublisherConfig{URL: "https://example.com"},
	})
	if err == nil {
		t.Fatalf("expected error for unknown event type")
	}
}

func TestLoadRegistryRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.toml")
	if err := os.WriteFile(path, []byte("publishers = []"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}

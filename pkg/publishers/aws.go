package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// loadAWSConfig resolves region and credentials. Static keys are used when
// both are set; otherwise the default provider chain applies.
func loadAWSConfig(ctx context.Context, region string, creds AWSCredentials) (aws.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if creds.AccessKeyID != "" && creds.SecretAccessKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// awsMessage is an event prepared for SQS or SNS. Group and dedup ids are set
// only for FIFO destinations, grouping by droplet so one droplet's events
// stay ordered.
type awsMessage struct {
	body    string
	attrs   map[string]string
	groupID *string
	dedupID *string
}

func newAWSMessage(evt Event, destination string) (awsMessage, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return awsMessage{}, fmt.Errorf("marshal event: %w", err)
	}

	msg := awsMessage{body: string(payload), attrs: map[string]string{}}
	for k, v := range evt.attributes() {
		if v != "" {
			msg.attrs[k] = v
		}
	}

	if strings.HasSuffix(destination, ".fifo") {
		group := evt.Droplet.ID
		if group == "" {
			group = string(evt.Type)
		}
		msg.groupID = aws.String(group)
		msg.dedupID = aws.String(evt.ID)
	}
	return msg, nil
}

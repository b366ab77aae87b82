package publishers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// snsClient is the part of the SNS API the sender calls.
type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// awsSNSSender delivers events to an SNS topic. Attributes let subscribers
// filter on event_type.
type awsSNSSender struct {
	topicARN string
	client   snsClient
	log      Logger
}

func newSNSPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.SNS == nil {
		return nil, fmt.Errorf("publisher %q missing sns configuration", cfg.ID)
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.SNS.Region, cfg.SNS.AWSCredentials)
	if err != nil {
		return nil, err
	}

	sender := &awsSNSSender{
		topicARN: cfg.SNS.TopicARN,
		client:   sns.NewFromConfig(awsCfg),
		log:      ensureLogger(log),
	}
	return &queuePublisher{id: cfg.ID, typ: TypeSNS, sender: sender}, nil
}

func (s *awsSNSSender) Send(ctx context.Context, evt Event) error {
	msg, err := newAWSMessage(evt, s.topicARN)
	if err != nil {
		return err
	}

	attrs := make(map[string]types.MessageAttributeValue, len(msg.attrs))
	for k, v := range msg.attrs {
		attrs[k] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn:               aws.String(s.topicARN),
		Message:                aws.String(msg.body),
		Subject:                aws.String(string(evt.Type)),
		MessageAttributes:      attrs,
		MessageGroupId:         msg.groupID,
		MessageDeduplicationId: msg.dedupID,
	})
	if err != nil {
		s.log.ErrorObj("sns publish failed", "publisher_sns_error", map[string]any{
			"topic_arn": s.topicARN,
			"event_id":  evt.ID,
			"error":     err.Error(),
		})
		return fmt.Errorf("publish to sns: %w", err)
	}
	s.log.DebugObj("sns message published", "publisher_sns_delivery", map[string]any{
		"topic_arn":  s.topicARN,
		"event_type": string(evt.Type),
		"message_id": aws.ToString(out.MessageId),
	})
	return nil
}

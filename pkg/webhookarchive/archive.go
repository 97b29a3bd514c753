// Package webhookarchive stores raw Stripe webhook payloads in S3 so audits
// can replay what the provider actually delivered.
package webhookarchive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type Archive struct {
	client *s3.Client
	bucket string
}

func New(bucket, region string) (*Archive, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	return &Archive{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

// Store writes one event payload. Events without an id get a generated key.
func (a *Archive) Store(eventID string, payload []byte) error {
	if eventID == "" {
		eventID = uuid.NewString()
	}
	key := fmt.Sprintf("webhooks/%s/%s.json", time.Now().UTC().Format("2006/01/02"), eventID)

	_, err := a.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("archive event %s: %w", eventID, err)
	}
	return nil
}

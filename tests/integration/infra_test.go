package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/anand176/Sentinel-AI-backend/internal/domain/entity"
	minioarchive "github.com/anand176/Sentinel-AI-backend/internal/infra/minio"
	"github.com/anand176/Sentinel-AI-backend/internal/infra/rabbitmq"
	"github.com/google/uuid"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcminio "github.com/testcontainers/testcontainers-go/modules/minio"
	tcrabbitmq "github.com/testcontainers/testcontainers-go/modules/rabbitmq"
)

func TestClipArchiverAgainstMinIO(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	minioContainer, err := tcminio.Run(ctx,
		"minio/minio:latest",
		tcminio.WithUsername("minioadmin"),
		tcminio.WithPassword("minioadmin"),
	)
	require.NoError(t, err)
	defer minioContainer.Terminate(ctx)

	endpoint, err := minioContainer.ConnectionString(ctx)
	require.NoError(t, err)

	archiver, err := minioarchive.NewArchiver(minioarchive.ArchiverConfig{
		Endpoint:   endpoint,
		AccessKey:  "minioadmin",
		SecretKey:  "minioadmin",
		UseSSL:     false,
		ClipBucket: "anomalous-clips",
	})
	require.NoError(t, err)
	require.NoError(t, archiver.EnsureBucket(ctx))

	clipPath := filepath.Join(t.TempDir(), "anomalous_clip.mp4")
	require.NoError(t, os.WriteFile(clipPath, []byte("clip bytes"), 0644))

	objectKey := uuid.NewString() + "/anomalous_clip.mp4"
	require.NoError(t, archiver.ArchiveClip(ctx, objectKey, clipPath))

	client, err := miniogo.New(endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	require.NoError(t, err)

	stat, err := client.StatObject(ctx, "anomalous-clips", objectKey, miniogo.StatObjectOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(len("clip bytes")), stat.Size)
}

func TestEventPublisherAgainstRabbitMQ(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	rmqContainer, err := tcrabbitmq.Run(ctx,
		"rabbitmq:3.12-management-alpine",
	)
	require.NoError(t, err)
	defer rmqContainer.Terminate(ctx)

	rmqURL, err := rmqContainer.AmqpURL(ctx)
	require.NoError(t, err)

	conn, err := amqp.Dial(rmqURL)
	require.NoError(t, err)
	defer conn.Close()

	pub, err := rabbitmq.NewPublisher(conn, "sentinel.video")
	require.NoError(t, err)
	events := rabbitmq.NewEventPublisher(pub, "detection.events")

	// Bind a queue so the published event can be read back.
	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	_, err = ch.QueueDeclare("detection.events.test", true, false, false, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind("detection.events.test", "detection.events", "sentinel.video", false, nil))

	want := entity.DetectionEventMessage{
		RunID:        uuid.New(),
		VideoPath:    "uploads/cam1.mp4",
		State:        entity.RunStateAnomalyFound,
		AnomalyFrame: 200,
		ClipPath:     "anomalous_clips/clip.mp4",
	}
	data, err := json.Marshal(want)
	require.NoError(t, err)
	require.NoError(t, events.PublishEvent(ctx, data))

	deliveries, err := ch.Consume("detection.events.test", "", true, false, false, false, nil)
	require.NoError(t, err)

	select {
	case d := <-deliveries:
		var got entity.DetectionEventMessage
		require.NoError(t, json.Unmarshal(d.Body, &got))
		assert.Equal(t, want, got)
	case <-time.After(30 * time.Second):
		t.Fatal("timed out waiting for published event")
	}
}

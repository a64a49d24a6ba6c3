package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/onegreenvn/keyword-article-proxy/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const defaultArticleQueue = "article_results"

// RabbitMQService announces completed articles on a durable queue
type RabbitMQService struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
}

// RabbitMQConfigured reports whether RABBITMQ_HOST is set
func RabbitMQConfigured() bool {
	return os.Getenv("RABBITMQ_HOST") != ""
}

func NewRabbitMQService() (*RabbitMQService, error) {
	// Get RabbitMQ connection details from environment
	host := getEnv("RABBITMQ_HOST", "localhost")
	port := getEnv("RABBITMQ_PORT", "5672")
	user := getEnv("RABBITMQ_USER", "guest")
	pass := getEnv("RABBITMQ_PASS", "guest")
	queueName := getEnv("RABBITMQ_ARTICLE_QUEUE", defaultArticleQueue)

	// Build connection URL (guest user automatically uses / vhost)
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/", user, pass, host, port)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	logrus.Infof("RabbitMQ service initialized (queue: %s)", queueName)
	return &RabbitMQService{
		conn:      conn,
		channel:   channel,
		queueName: queueName,
	}, nil
}

// PublishMessage publishes a JSON message to the specified queue
func (s *RabbitMQService) PublishMessage(ctx context.Context, queueName string, message map[string]interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = s.channel.PublishWithContext(ctx,
		"",        // exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	logrus.Debugf("Message published to queue %s", queueName)
	return nil
}

// NotifyArticle announces one completed article
func (s *RabbitMQService) NotifyArticle(ctx context.Context, record *models.ArticleRecord) error {
	return s.PublishMessage(ctx, s.queueName, articleMessage(record))
}

func articleMessage(record *models.ArticleRecord) map[string]interface{} {
	message := map[string]interface{}{
		"id":             record.ID,
		"generation_id":  record.GenerationID,
		"keyword":        record.Keyword,
		"position":       record.Position,
		"title":          record.Title,
		"content":        record.Content,
		"format":         record.Format,
		"publish_status": record.PublishStatus,
		"created_at":     record.CreatedAt.Format(time.RFC3339),
	}
	if record.PublishError != "" {
		message["publish_error"] = record.PublishError
	}
	return message
}

// Close closes the RabbitMQ connection
func (s *RabbitMQService) Close() error {
	if s.channel != nil {
		if err := s.channel.Close(); err != nil {
			logrus.Warnf("Error closing channel: %v", err)
		}
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			logrus.Warnf("Error closing connection: %v", err)
		}
	}
	return nil
}

// getEnv gets environment variable with fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

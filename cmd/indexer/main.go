package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bug-tracker-api/config"
	"github.com/oksasatya/bug-tracker-api/pkg/helpers"
	"github.com/oksasatya/bug-tracker-api/pkg/search"
)

// Consumes index jobs published by the API and applies them to the
// Elasticsearch bugs index. Jobs are acked only after the index write
// succeeds; failures are requeued once.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-indexer", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQIndexQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	esClient, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("elasticsearch client: %v", err)
	}
	indexer := search.NewIndexer(esClient, cfg.ESBugsIndex)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQIndexQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQIndexQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	logger.Infof("indexer consuming from %s", cfg.RabbitMQIndexQueue)

	for {
		select {
		case <-quit:
			logger.Info("indexer shutting down")
			return
		case d, ok := <-msgs:
			if !ok {
				logger.Warn("consume channel closed")
				return
			}
			handle(logger, indexer, d)
		}
	}
}

func handle(logger *logrus.Logger, ix *search.Indexer, d amqp.Delivery) {
	var job search.IndexJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		logger.Warnf("bad index job, dropping: %v", err)
		_ = d.Nack(false, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	switch job.Action {
	case search.ActionDelete:
		err = ix.DeleteBug(ctx, job.Doc.ID)
	default:
		err = ix.IndexBug(ctx, job.Doc)
	}
	if err != nil {
		logger.Warnf("index job failed (bug %s): %v", job.Doc.ID, err)
		// requeue only on first delivery to avoid a poison-message loop
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	_ = d.Ack(false)
}

package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"voicechat/internal/ai"
	"voicechat/internal/chat"
	"voicechat/internal/config"
	"voicechat/internal/db"
	"voicechat/internal/metrics"
	"voicechat/internal/store/rabbitmq"
)

type jobMsg struct {
	JobID string `json:"job_id"`
}

func workerConcurrency() int {
	v := os.Getenv("WORKER_CONCURRENCY")
	if v == "" {
		return 2
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 2
	}
	if n > 50 {
		return 50
	}
	return n
}

func main() {
	cfg := config.Load()

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	gdb, err := db.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	repo := chat.NewRepo(gdb)
	svc := chat.NewService(repo, nil)
	provider := ai.NewEchoProvider(os.Getenv("REPLY_PREFIX"))
	m := metrics.Global()

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatal().Err(err).Msg("rabbit dial failed")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal().Err(err).Msg("rabbit channel failed")
	}
	defer ch.Close()

	if err := rabbitmq.DeclareTopology(ch, cfg.RabbitQueue); err != nil {
		log.Fatal().Err(err).Msg("queue declare failed")
	}

	concurrency := workerConcurrency()

	if err := ch.Qos(concurrency, 0, false); err != nil {
		log.Fatal().Err(err).Msg("qos failed")
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("consume failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("queue", cfg.RabbitQueue).Int("concurrency", concurrency).Msg("worker started")

	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				var jm jobMsg
				if err := json.Unmarshal(d.Body, &jm); err != nil || jm.JobID == "" {
					log.Error().Int("worker", workerID).Err(err).Msg("bad job message")
					_ = d.Nack(false, false)
					continue
				}

				start := time.Now()
				if err := handleJob(ctx, svc, repo, provider, jm.JobID); err != nil {
					m.ReplyJobsFailed.Inc()
					log.Error().Int("worker", workerID).Str("job", jm.JobID).
						Dur("cost", time.Since(start)).Err(err).Msg("job failed")
					_ = d.Nack(false, false)
					continue
				}

				m.ReplyJobsDone.Inc()
				if err := d.Ack(false); err != nil {
					log.Error().Int("worker", workerID).Str("job", jm.JobID).Err(err).Msg("ack failed")
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("worker shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				log.Warn().Msg("delivery channel closed")
				time.Sleep(1 * time.Second)
				continue
			}
			jobs <- d
		}
	}
}

// handleJob builds the conversation so far, asks the stub provider for a
// reply and records it as a new ai_text message. Messages themselves are
// never mutated; the job row carries the outcome.
func handleJob(ctx context.Context, svc *chat.Service, repo *chat.Repo, provider ai.Provider, jobID string) error {
	_ = repo.UpdateJobStatusRunning(ctx, jobID)

	j, err := repo.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}

	history, err := repo.ListMessages(ctx, j.SessionID)
	if err != nil {
		_ = repo.MarkJobFailed(ctx, jobID, err.Error())
		return err
	}

	reply, err := provider.Chat(ctx, toProviderMessages(history))
	if err != nil {
		_ = repo.MarkJobFailed(ctx, jobID, err.Error())
		return err
	}

	msg, err := svc.CreateMessage(ctx, chat.CreateMessageInput{
		SessionID:   j.SessionID,
		MessageType: chat.MessageAIText,
		Content:     &reply,
	})
	if err != nil {
		_ = repo.MarkJobFailed(ctx, jobID, err.Error())
		return err
	}

	return repo.MarkJobSucceeded(ctx, jobID, msg.ID)
}

func toProviderMessages(history []chat.Message) []ai.Message {
	out := make([]ai.Message, 0, len(history))
	for _, m := range history {
		role := "user"
		if m.MessageType == chat.MessageAIText || m.MessageType == chat.MessageAIAudio {
			role = "assistant"
		}

		// Audio turns carry their text in the transcription field.
		content := ""
		switch {
		case m.Transcription != nil && *m.Transcription != "":
			content = *m.Transcription
		case m.Content != nil:
			content = *m.Content
		}

		out = append(out, ai.Message{Role: role, Content: content})
	}
	return out
}

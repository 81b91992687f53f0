package kafka_config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithoutBrokersDisablesProducer(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "")

	cfg := Load()

	assert.False(t, cfg.Enabled())
	assert.Empty(t, cfg.Brokers)
	require.NoError(t, cfg.Validate())
}

func TestLoad_ParsesBrokerList(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "kafka-1:9092, kafka-2:9092")

	cfg := Load()

	assert.True(t, cfg.Enabled())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
}

func TestValidate_RejectsBlankBrokerEntry(t *testing.T) {
	cfg := &Config{
		Brokers:              []string{"kafka-1:9092", ""},
		ProducerMaxAttempts:  DefaultProducerMaxAttempts,
		ProducerBatchTimeout: DefaultProducerBatchTimeout,
		ProducerRequireAcks:  DefaultProducerRequireAcks,
		ProducerCompression:  DefaultProducerCompression,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")
}

package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJob_WrapsPayload(t *testing.T) {
	job, err := NewJob(JobTypeStatusNotification, StatusNotificationPayload{RegistrationID: "r1", Status: "approved"})
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, 0, job.Attempt)

	var p StatusNotificationPayload
	require.NoError(t, json.Unmarshal(job.Payload, &p))
	assert.Equal(t, "r1", p.RegistrationID)
	assert.Equal(t, "approved", p.Status)
}

func TestQueueFor(t *testing.T) {
	assert.Equal(t, QueueExports, queueFor(JobTypeExport))
	assert.Equal(t, QueueNotifications, queueFor(JobTypeStatusNotification))
}

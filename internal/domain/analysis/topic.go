package analysis

import "strings"

// Topic identifies one of the fixed analysis subjects.
type Topic string

const (
	TopicHistory       Topic = "history"
	TopicBusinessModel Topic = "business_model"
	TopicCompetition   Topic = "competition"
	TopicFuture        Topic = "future"
)

// DefaultTopic is selected when the analysis view is activated for the first time.
const DefaultTopic = TopicHistory

var topicLabels = map[Topic]string{
	TopicHistory:       "Development History",
	TopicBusinessModel: "Business Model & Monetization",
	TopicCompetition:   "Competition (vs Douyin)",
	TopicFuture:        "Future Outlook",
}

// Topics returns every topic in menu order.
func Topics() []Topic {
	return []Topic{TopicHistory, TopicBusinessModel, TopicCompetition, TopicFuture}
}

// ParseTopic maps a wire id (case-insensitive) to a Topic.
func ParseTopic(s string) (Topic, error) {
	t := Topic(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrUnknownTopic
	}
	return t, nil
}

func (t Topic) Valid() bool {
	_, ok := topicLabels[t]
	return ok
}

// Label is the human readable name shown in the topic selector.
func (t Topic) Label() string {
	if l, ok := topicLabels[t]; ok {
		return l
	}
	return string(t)
}

func (t Topic) String() string { return string(t) }

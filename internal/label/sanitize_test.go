package label

import (
	"reflect"
	"testing"
)

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"eth-0":     "eth_0",
		"a/b":       "a__b",
		"eth-0/0/8": "eth_0__0__8",
		"plain":     "plain",
		"a-b/c-d":   "a_b__c_d",
	}
	for in, want := range cases {
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractBrackets(t *testing.T) {
	s := "/cos/interfaces/interface[name='et-0/0/8']/queues/queue[queue='8']/"
	got := ExtractBrackets(s)
	want := []Pair{
		{Key: "name", Value: "et_0/0/8"},
		{Key: "queue", Value: "8"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractBrackets = %#v, want %#v", got, want)
	}
}

func TestExtractBrackets_KeyDashRewritten(t *testing.T) {
	got := ExtractBrackets("[queue-id='3']")
	want := []Pair{{Key: "queue_id", Value: "3"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractBrackets = %#v, want %#v", got, want)
	}
}

func TestExtractBrackets_NoBrackets(t *testing.T) {
	if got := ExtractBrackets("plain/path"); len(got) != 0 {
		t.Errorf("ExtractBrackets(no brackets) = %#v, want empty", got)
	}
}

func TestStripBrackets(t *testing.T) {
	s := "/cos/interfaces/interface[name='et-0/0/8']/queues/queue[queue='8']/"
	want := "/cos/interfaces/interface/queues/queue/"
	if got := StripBrackets(s); got != want {
		t.Errorf("StripBrackets = %q, want %q", got, want)
	}
}

func TestStripBrackets_ThenSanitize_MatchesScenarioS2(t *testing.T) {
	s := "/cos/interfaces/interface[name='et-0/0/8']/queues/queue[queue='8']/"
	got := Sanitize(StripBrackets(s))
	want := "__cos__interfaces__interface__queues__queue__"
	if got != want {
		t.Errorf("prefix = %q, want %q", got, want)
	}
}

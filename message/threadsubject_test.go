package message

import "testing"

func TestThreadNamePlainSubject(t *testing.T) {
	name, isResp := ThreadName("Hello")
	if name != "Hello" || isResp {
		t.Fatalf("got %q, %v", name, isResp)
	}
}

func TestThreadNameStripsRePrefix(t *testing.T) {
	name, isResp := ThreadName("Re: Hello")
	if name != "Hello" || !isResp {
		t.Fatalf("got %q, %v", name, isResp)
	}
}

func TestThreadNameStripsFwdPrefix(t *testing.T) {
	name, isResp := ThreadName("Fwd: Hello")
	if name != "Hello" || !isResp {
		t.Fatalf("got %q, %v", name, isResp)
	}
}

func TestThreadNameStripsReplyCount(t *testing.T) {
	name, isResp := ThreadName("Re[2]: Hello")
	if name != "Hello" || !isResp {
		t.Fatalf("got %q, %v", name, isResp)
	}
}

func TestThreadNameStripsLeadingTagAndRePrefix(t *testing.T) {
	name, isResp := ThreadName("[SUSPECTED SPAM] Re: Hello")
	if name != "Hello" || !isResp {
		t.Fatalf("got %q, %v", name, isResp)
	}
}

func TestThreadNameStripsFwdSuffix(t *testing.T) {
	name, _ := ThreadName("Hello (fwd)")
	if name != "Hello" {
		t.Fatalf("got %q", name)
	}
}

func TestThreadNameCaseInsensitivePrefix(t *testing.T) {
	name, isResp := ThreadName("RE: Hello")
	if name != "Hello" || !isResp {
		t.Fatalf("got %q, %v", name, isResp)
	}
}

func TestThreadNameFixpointMultiplePrefixes(t *testing.T) {
	name, isResp := ThreadName("Re: Fwd: [tag] Hello")
	if name != "Hello" || !isResp {
		t.Fatalf("got %q, %v", name, isResp)
	}
}

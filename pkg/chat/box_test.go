package chat_test

import (
	"testing"

	"github.com/Abraxas-365/taskboard/pkg/chat"
	"github.com/Abraxas-365/taskboard/pkg/realtime"
)

func TestBox_SendAndReceive(t *testing.T) {
	left, right := realtime.Pipe()

	var seen []chat.Message
	alice := chat.NewBox(left, nil)
	bob := chat.NewBox(right, func(m chat.Message) { seen = append(seen, m) })
	alice.Attach()
	bob.Attach()

	if err := alice.Send("hi bob"); err != nil {
		t.Fatal(err)
	}
	if err := bob.Send("hey"); err != nil {
		t.Fatal(err)
	}

	a := alice.Messages()
	if len(a) != 2 || a[0].From != chat.FromMe || a[1].From != chat.FromPeer || a[1].Text != "hey" {
		t.Fatalf("alice log = %+v", a)
	}
	b := bob.Messages()
	if len(b) != 2 || b[0].Mine() || b[0].Text != "hi bob" || !b[1].Mine() {
		t.Fatalf("bob log = %+v", b)
	}
	if len(seen) != 2 {
		t.Fatalf("onMessage calls = %d", len(seen))
	}
}

func TestBox_IgnoresBlankText(t *testing.T) {
	left, right := realtime.Pipe()
	alice := chat.NewBox(left, nil)
	bob := chat.NewBox(right, nil)
	bob.Attach()

	if err := alice.Send("   "); err != nil {
		t.Fatal(err)
	}
	if len(alice.Messages())+len(bob.Messages()) != 0 {
		t.Fatal("blank message was recorded")
	}
}

func TestBox_Detach(t *testing.T) {
	left, right := realtime.Pipe()
	alice := chat.NewBox(left, nil)
	bob := chat.NewBox(right, nil)
	bob.Attach()
	bob.Attach()
	if n := right.ListenerCount(realtime.EventChat); n != 1 {
		t.Fatalf("listeners = %d", n)
	}

	bob.Detach()
	_ = alice.Send("anyone?")
	if len(bob.Messages()) != 0 {
		t.Fatal("detached box received a message")
	}
	if n := right.ListenerCount(realtime.EventChat); n != 0 {
		t.Fatalf("listeners = %d", n)
	}
}

func TestBox_MessagesIsACopy(t *testing.T) {
	left, _ := realtime.Pipe()
	box := chat.NewBox(left, nil)
	_ = box.Send("one")

	msgs := box.Messages()
	msgs[0].Text = "changed"
	if box.Messages()[0].Text != "one" {
		t.Fatal("log leaked")
	}
}

func TestBox_NonTextPayload(t *testing.T) {
	left, right := realtime.Pipe()
	bob := chat.NewBox(right, nil)
	bob.Attach()

	_ = left.Emit(realtime.EventChat, map[string]int{"n": 1})
	if len(bob.Messages()) != 0 {
		t.Fatal("non-text payload recorded")
	}
}

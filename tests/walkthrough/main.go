package main

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"time"

	json "github.com/goccy/go-json"
)

// Walks one voter through a running kiosk:
//
//	go run ./tests/walkthrough [image.jpg]
//
// Without an image argument a blank PNG frame is uploaded, which only passes
// when the backend accepts it.
const (
	baseURL      = "http://127.0.0.1:8085"
	uniqueID     = "WALK-0001"
	ecID         = "EC-WALK"
	partyID      = 1
	pollInterval = 250 * time.Millisecond
	stepTimeout  = 30 * time.Second
)

var blankFrame = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

var httpClient = &http.Client{
	Timeout: 20 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:    4,
		IdleConnTimeout: 30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type view struct {
	State          string `json:"state"`
	Message        string `json:"message"`
	DisplayWarning string `json:"displayWarning"`
	Exclusive      bool   `json:"exclusive"`
	SessionID      string `json:"sessionId"`
	Error          string `json:"error"`
}

type party struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func main() {
	fmt.Println("=== Kiosk Walkthrough ===")

	fmt.Print("Waiting for kiosk... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: kiosk not responding")
			os.Exit(1)
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	frame := blankFrame
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fail("read image: %s", err)
		}
		frame = data
	}

	v, err := current()
	if err != nil {
		fail("session: %s", err)
	}
	if v.State == "ReadyToVote" {
		fmt.Printf("Resumed session %s found, going straight to the ballot\n", v.SessionID)
	} else {
		step("start", func() (view, int, error) {
			return postJSON("/session/start", map[string]string{"uniqueId": uniqueID, "ecId": ecID})
		})
		step("capture", func() (view, int, error) { return upload(frame) })
		v = await("ReadyToVote")
	}
	if v.DisplayWarning != "" {
		fmt.Printf("  display warning: %s\n", v.DisplayWarning)
	}

	var ballot struct {
		Parties []party `json:"parties"`
	}
	if err := getJSON("/ballot", &ballot); err != nil {
		fail("ballot: %s", err)
	}
	for _, p := range ballot.Parties {
		fmt.Printf("  [%d] %s\n", p.ID, p.Name)
	}

	step("vote", func() (view, int, error) {
		return postJSON("/ballot/vote", map[string]int{"partyId": partyID})
	})
	await("Idle")
	fmt.Println("\nDone: kiosk is ready for the next voter")
}

func step(name string, call func() (view, int, error)) {
	start := time.Now()
	v, status, err := call()
	if err != nil {
		fail("%s: %s", name, err)
	}
	fmt.Printf("%-8s %d %-12s %-40q %s\n", name, status, v.State, v.Message, time.Since(start).Round(time.Millisecond))
	if status/100 != 2 {
		fail("%s refused: %s", name, v.Error)
	}
}

func await(state string) view {
	deadline := time.Now().Add(stepTimeout)
	for time.Now().Before(deadline) {
		v, err := current()
		if err == nil && v.State == state {
			fmt.Printf("reached  %s\n", state)
			return v
		}
		time.Sleep(pollInterval)
	}
	fail("timed out waiting for %s", state)
	return view{}
}

func current() (view, error) {
	var v view
	err := getJSON("/session", &v)
	return v, err
}

func upload(image []byte) (view, int, error) {
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("image", "walkthrough.jpg")
	if err != nil {
		return view{}, 0, err
	}
	part.Write(image)
	w.Close()
	return do(http.MethodPost, "/session/capture", w.FormDataContentType(), buf)
}

func postJSON(path string, in any) (view, int, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return view{}, 0, err
	}
	return do(http.MethodPost, path, "application/json", buf)
}

func do(method, path, contentType string, body io.Reader) (view, int, error) {
	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		return view{}, 0, err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := httpClient.Do(req)
	if err != nil {
		return view{}, 0, err
	}
	defer resp.Body.Close()
	var v view
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return view{}, resp.StatusCode, fmt.Errorf("%s %s: %s: %w", method, path, resp.Status, err)
	}
	return v, resp.StatusCode, nil
}

func getJSON(path string, out any) error {
	resp, err := httpClient.Get(baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("get %s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func fail(format string, args ...any) {
	fmt.Printf("FAILED: "+format+"\n", args...)
	os.Exit(1)
}

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Small manual-test client: attaches a local file, queues a thumbnail
// conversion and polls the job until it finishes.
func main() {
	var (
		server     = flag.String("server", "http://localhost:3000", "server base URL")
		filePath   = flag.String("file", "", "file to attach")
		modelType  = flag.String("model-type", "User", "owning model type")
		modelID    = flag.String("model-id", "1", "owning model id")
		collection = flag.String("collection", "default", "collection name")
	)
	flag.Parse()

	if *filePath == "" {
		log.Fatal("usage: client -file <path> [-server url] [-model-type t] [-model-id id]")
	}

	mediaID := attach(*server, *filePath, *modelType, *modelID, *collection)
	fmt.Println("attached media:", mediaID)

	jobID := queueThumbnail(*server, mediaID)
	fmt.Println("queued job:", jobID)

	for i := 0; i < 30; i++ {
		status := jobStatus(*server, jobID)
		fmt.Println("job status:", status)
		if status == "completed" || status == "failed" {
			break
		}
		time.Sleep(time.Second)
	}

	fmt.Println("thumb url:", resolveURL(*server, mediaID, "thumb"))
}

func attach(server, filePath, modelType, modelID, collection string) string {
	file, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("could not open %s: %v", filePath, err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		log.Fatal(err)
	}
	if _, err := io.Copy(part, file); err != nil {
		log.Fatal(err)
	}
	writer.WriteField("model_type", modelType)
	writer.WriteField("model_id", modelID)
	writer.WriteField("collection", collection)
	writer.Close()

	resp, err := http.Post(server+"/api/v1/media", writer.FormDataContentType(), &body)
	if err != nil {
		log.Fatalf("attach failed: %v", err)
	}
	defer resp.Body.Close()

	var out struct {
		ID string `json:"id"`
	}
	decodeOrDie(resp, &out)
	return out.ID
}

func queueThumbnail(server, mediaID string) string {
	payload := `{"conversions":{"thumb":{"width":200,"height":200,"fit":"cover"}}}`
	resp, err := http.Post(server+"/api/v1/media/"+mediaID+"/conversions", "application/json", bytes.NewBufferString(payload))
	if err != nil {
		log.Fatalf("queueing conversions failed: %v", err)
	}
	defer resp.Body.Close()

	var out struct {
		JobID string `json:"job_id"`
	}
	decodeOrDie(resp, &out)
	return out.JobID
}

func jobStatus(server, jobID string) string {
	resp, err := http.Get(server + "/api/v1/jobs/" + jobID)
	if err != nil {
		log.Fatalf("job status failed: %v", err)
	}
	defer resp.Body.Close()

	var out struct {
		Status string `json:"status"`
	}
	decodeOrDie(resp, &out)
	return out.Status
}

func resolveURL(server, mediaID, conversion string) string {
	resp, err := http.Get(server + "/api/v1/media/" + mediaID + "/url?conversion=" + conversion)
	if err != nil {
		log.Fatalf("resolve url failed: %v", err)
	}
	defer resp.Body.Close()

	var out struct {
		URL string `json:"url"`
	}
	decodeOrDie(resp, &out)
	return out.URL
}

func decodeOrDie(resp *http.Response, dst interface{}) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal(err)
	}
	if resp.StatusCode >= 300 {
		log.Fatalf("unexpected status %d: %s", resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.Fatalf("could not decode response %s: %v", data, err)
	}
}

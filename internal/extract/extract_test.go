package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(body)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestTextFromBytesPlainText(t *testing.T) {
	got, err := TextFromBytes(context.Background(), []byte("  you never listen  \n"), "text/plain; charset=utf-8", "note.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "you never listen" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestTextFromBytesRejectsInvalidUTF8(t *testing.T) {
	if _, err := TextFromBytes(context.Background(), []byte{0xff, 0xfe, 0xfd}, "text/plain", ""); err == nil {
		t.Fatal("expected utf-8 error")
	}
}

func TestTextFromBytesDocxFromZipMime(t *testing.T) {
	data := buildDocx(t, `<w:document xmlns:w="w"><w:body><w:p><w:r><w:t>Hello</w:t></w:r></w:p><w:p><w:r><w:t>there</w:t></w:r></w:p></w:body></w:document>`)

	got, err := TextFromBytes(context.Background(), data, "application/zip", "message.docx")
	if err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
	if got != "Hello\nthere" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestTextFromBytesRealZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = TextFromBytes(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestTextFromBytesInvalidPDF(t *testing.T) {
	if _, err := TextFromBytes(context.Background(), []byte("not a pdf"), "application/pdf", "x.pdf"); err == nil {
		t.Fatal("expected pdf parse error")
	}
}

func TestTextFromBytesCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := TextFromBytes(ctx, []byte("hi"), "text/plain", ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDetectMimeType(t *testing.T) {
	tests := []struct {
		name     string
		mime     string
		fileName string
		data     []byte
		want     string
	}{
		{name: "declared pdf", mime: "application/pdf", want: MimePDF},
		{name: "octet stream txt extension", mime: "application/octet-stream", fileName: "a.txt", want: MimeText},
		{name: "empty mime pdf extension", fileName: "a.PDF", want: MimePDF},
		{name: "sniffed text", data: []byte("plain words"), want: MimeText},
		{name: "image passes through", mime: "image/png", want: "image/png"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMimeType(tt.mime, tt.fileName, tt.data); got != tt.want {
				t.Fatalf("DetectMimeType() = %q, want %q", got, tt.want)
			}
		})
	}
}

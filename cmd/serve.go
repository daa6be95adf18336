package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/andaloo23/music-copilot/abc"
	"github.com/andaloo23/music-copilot/config"
	"github.com/andaloo23/music-copilot/midi"
	"github.com/andaloo23/music-copilot/model"
	"github.com/andaloo23/music-copilot/note"
	"github.com/andaloo23/music-copilot/util"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

const maxBodyBytes = 1 << 20

var serveFlags config.CLIFlags

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.ConfigPath, "config", "c", "", "Path to a yaml config file")
	serveCmd.Flags().StringVar(&serveFlags.Addr, "addr", "", "Address to listen on (default :5000)")
	serveCmd.Flags().StringSliceVar(&serveFlags.AllowedOrigins, "allowed-origins", nil, "CORS allowed origins (default *)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the conversion endpoint",
	Long:  `Serves POST / (ABC notation) and POST /midi (standard midi file) for the piano roll frontend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(serveFlags)
		if err != nil {
			return err
		}
		if !verbose {
			slog.SetDefault(newLogger(cfg.LogLevel))
		}
		return serve(cmd.Context(), cfg)
	},
}

type ctxKey int

const requestIDKey ctxKey = 0

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func requestLogger(r *http.Request) *slog.Logger {
	id, _ := r.Context().Value(requestIDKey).(string)
	return slog.Default().With("request_id", id)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		requestLogger(r).Error("Could not encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(w, r, status, model.ErrorResponse{Error: err.Error()})
}

// conversion failures are the client's fault, everything else is ours
func conversionStatus(err error) int {
	switch {
	case errors.Is(err, util.ErrMalformedPixel),
		errors.Is(err, note.ErrPitchOutOfRange),
		errors.Is(err, midi.ErrKeyOutOfRange):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func readRequest(w http.ResponseWriter, r *http.Request) ([]byte, model.ConvertRequestBody, bool) {
	reqBody, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("could not read request body: %w", err))
		return nil, model.ConvertRequestBody{}, false
	}

	input, err := parseRequest(reqBody)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return nil, model.ConvertRequestBody{}, false
	}
	return reqBody, input, true
}

func HandleIndex(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "The server is running.")
}

func HandleConvert(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	reqBody, input, ok := readRequest(w, r)
	if !ok {
		return
	}
	log.Info("Received message", "message", input.Message, "rectangles", len(input.Rectangles))

	notation, err := abc.Convert(input.Rectangles)
	if err != nil {
		log.Warn("Could not convert rectangles", "error", err)
		writeError(w, r, conversionStatus(err), err)
		return
	}
	log.Info("ABC notation", "abc", notation)

	writeJSON(w, r, http.StatusOK, model.ConvertResponse{
		Status:       "success",
		DataReceived: reqBody,
		AbcNotation:  notation,
	})
}

func HandleMidi(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	_, input, ok := readRequest(w, r)
	if !ok {
		return
	}
	log.Info("Received message", "message", input.Message, "rectangles", len(input.Rectangles))

	notes, err := note.FromRectangles(input.Rectangles)
	if err != nil {
		log.Warn("Could not convert rectangles", "error", err)
		writeError(w, r, conversionStatus(err), err)
		return
	}
	b, err := midi.Bytes(notes)
	if err != nil {
		log.Warn("Could not render midi", "error", err)
		writeError(w, r, conversionStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", `attachment; filename="music-piece.mid"`)
	w.Write(b)
}

func NewRouter(cfg *config.Config) http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(withRequestID)
	router.HandleFunc("/", HandleIndex).Methods("GET")
	router.HandleFunc("/", HandleConvert).Methods("POST")
	router.HandleFunc("/midi", HandleMidi).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
	})
	return c.Handler(router)
}

func serve(ctx context.Context, cfg *config.Config) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Listening", "addr", cfg.Addr, "allowed_origins", cfg.AllowedOrigins)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

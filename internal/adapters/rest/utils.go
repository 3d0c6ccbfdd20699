package rest

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	// формируем объект ошибки
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Хелперы парсинга query-параметров: nil означает "параметр не задан".

func parseString(query url.Values, key string) *string {
	if v := query.Get(key); v != "" {
		return &v
	}
	return nil
}

func parseFloat(query url.Values, key string) *float64 {
	if v := query.Get(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return &f
		}
	}
	return nil
}

func parseInt(query url.Values, key string) *int {
	if v := query.Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return &i
		}
	}
	return nil
}

package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptQueryCorrection: `Corrige la ortografía de la siguiente consulta y expande sus términos coloquiales a los conceptos formales que representan, para mejorar una búsqueda semántica sobre documentos internos de empresa.
Devuelve SOLO la consulta corregida, sin explicaciones.

Consulta original: %s
Consulta corregida:`,

	driven.PromptQueryAlternatives: `Genera %d formulaciones alternativas y concisas de la siguiente consulta, usando sinónimos y vocabulario distinto pero conservando la intención.
Devuelve una formulación por línea, sin numerar y sin texto adicional.

Consulta: %s
Alternativas:`,

	driven.PromptClassify: `Clasifica la siguiente petición de usuario en UNA de estas categorías:
- qa: pregunta directa sobre el contenido de los documentos. Ejemplo: "¿Cuál es el modelo de negocio?"
- generation: pedir que se redacte contenido nuevo (email, tweet, resumen). Ejemplo: "Redacta un tweet sobre el lanzamiento"
- analysis: pedir un análisis, comparación o recomendación estratégica. Ejemplo: "Analiza los riesgos del plan de expansión"
- writing: pedir que se añada información a un documento. Ejemplo: "Añade al Q&A: P: ¿Quién es el CEO? R: Ana"

Responde con una sola palabra en minúsculas: qa, generation, analysis o writing.

Petición: %s
Categoría:`,

	driven.PromptQA: `Eres un asistente de IA llamado Lola. Tu única tarea es responder preguntas basándote exclusivamente en la 'Información Relevante' proporcionada. REGLA CRÍTICA: Si la respuesta no está explícitamente en el texto, debes responder EXACTAMENTE: 'No tengo esa información específica en mis documentos.'

**Información Relevante:**
%s

**Consulta del Usuario:** %s

**Respuesta de Lola:**`,

	driven.PromptGeneration: `Eres Lola, una experta en comunicación y marketing para ChainBrief. Tu tarea es generar contenido nuevo (como emails, posts para redes sociales, resúmenes) basándote en la 'Información Relevante' extraída de los documentos internos. Adopta el tono y estilo de ChainBrief. REGLA CRÍTICA: Debes fundamentar cada pieza de contenido en los hechos proporcionados. No inventes métricas, fechas o características.

**Información Relevante de Documentos Internos:**
%s

**Petición del Usuario:** %s

**Contenido Generado por Lola:**`,

	driven.PromptAnalysis: `Eres Lola, una analista de negocios y estratega para ChainBrief. Tu tarea es analizar la 'Información Relevante' para responder preguntas complejas, identificar riesgos, oportunidades y dar recomendaciones. REGLA CRÍTICA: Debes pensar paso a paso. Tu respuesta debe ser estructurada y siempre debes citar el documento o la idea de la 'Información Relevante' que respalda cada punto de tu análisis. Por ejemplo: 'Basado en el One-Pager, una oportunidad es...' o 'El Pitch Deck menciona un riesgo sobre...'

**Información Relevante de la Base de Conocimiento:**
%s

**Solicitud de Análisis del Usuario:** %s

**Análisis de Lola:**`,

	driven.PromptWriting: `Convierte la siguiente instrucción de escritura en una acción JSON. El JSON debe tener exactamente dos campos:
- "target_document": "qna_document" si la información va al documento de preguntas y respuestas, o "itinerary_sheet" si va a la hoja de itinerario.
- "content_to_write": el texto a añadir. Para "itinerary_sheet" debe ser una lista ordenada de valores (fecha, hora, descripción); para "qna_document" debe ser una cadena de texto.

Devuelve SOLO el JSON, sin explicaciones ni bloques de código.

Instrucción: %s
JSON:`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.lola/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".lola", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Lola Prompts

This directory contains customisable prompts used by Lola's LLM features.

## Files

- ` + "`query_correction.txt`" + ` - Fixes spelling and expands query terms before retrieval
- ` + "`query_alternatives.txt`" + ` - Generates alternative phrasings for multi-query retrieval
- ` + "`classify.txt`" + ` - Routes a request to one of the task categories
- ` + "`tool_qa.txt`" + ` - Strict grounded question answering
- ` + "`tool_generation.txt`" + ` - Content generation persona
- ` + "`tool_analysis.txt`" + ` - Strategic analysis persona
- ` + "`tool_writing.txt`" + ` - Converts a writing instruction into a JSON action

## Customisation

Edit any file to customise LLM behaviour. Changes take effect on the next
command or after restarting the chat.

## Format Placeholders

Prompts use Go fmt placeholders:
- ` + "`%s`" + ` - String (e.g., the query or retrieved context)
- ` + "`%d`" + ` - Integer (e.g., number of alternatives)

Ensure customised prompts maintain placeholders in the correct positions.
`
	return os.WriteFile(path, []byte(content), 0600)
}

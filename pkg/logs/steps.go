package logs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/op/go-logging.v1"
)

const AgentLogFile = "agent_client.log"

var stepFormat = logging.MustStringFormatter(`[%{time:2006-01-02 15:04:05.000}] [%{level:-8s}] %{message}`)

// StepLogger writes the structured, human oriented log of the agent client.
// Every record goes both to the console and to the agent log file.
type StepLogger struct {
	log    *logging.Logger
	closer io.Closer
}

// NewStepLogger logs to console and to agent_client.log in dir.
func NewStepLogger(dir string, console io.Writer) (*StepLogger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := openLogFile(filepath.Join(dir, AgentLogFile))
	if err != nil {
		return nil, err
	}

	s := NewStepLoggerTo(f, console)
	s.closer = f
	return s, nil
}

// NewStepLoggerTo logs to the given writers. Nil writers discard.
func NewStepLoggerTo(file, console io.Writer) *StepLogger {
	logger := logging.MustGetLogger("agent_client")
	logger.SetBackend(logging.MultiLogger(
		sink(file, stepFormat, logging.INFO),
		sink(console, stepFormat, logging.INFO),
	))
	return &StepLogger{log: logger}
}

func (s *StepLogger) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

func (s *StepLogger) Startup() {
	s.rule("=", 80)
	s.log.Info("STARTING MCP AGENT CLIENT")
	s.rule("=", 80)
}

func (s *StepLogger) Completion() {
	s.rule("=", 80)
	s.log.Info("MCP AGENT CLIENT COMPLETED SUCCESSFULLY")
	s.rule("=", 80)
}

func (s *StepLogger) Step(n int, description string) {
	s.rule("-", 40)
	s.log.Infof("STEP %d: %s", n, description)
}

func (s *StepLogger) Success(format string, args ...any) {
	s.log.Infof("✓ "+format, args...)
}

func (s *StepLogger) Info(format string, args ...any) {
	s.log.Infof(format, args...)
}

func (s *StepLogger) Error(message string, err error) {
	s.log.Errorf("✗ %s", message)
	if err != nil {
		s.log.Errorf("Error type: %T", err)
		s.log.Errorf("Error: %v", err)
	}
}

func (s *StepLogger) QueryStart(n int, query string, historyLen int) {
	for range 3 {
		s.rule("=", 60)
	}
	s.log.Infof("🔍 QUERY #%d: Executing user query...", n)
	s.log.Infof("Query: %s", query)
	s.log.Infof("Conversation history length: %d messages", historyLen)
}

func (s *StepLogger) QuerySuccess(historyLen int) {
	s.log.Info("✓ Query executed successfully")
	s.log.Infof("Updated conversation history to %d messages", historyLen)
}

func (s *StepLogger) ResponseAnalysis(n int, responseType string, messageCount int) {
	s.rule("-", 60)
	s.log.Infof("📊 RESPONSE ANALYSIS #%d:", n)
	s.log.Infof("Response type: %s", responseType)
	s.log.Infof("Total messages in conversation: %d", messageCount)
}

func (s *StepLogger) ConversationFlowHeader() {
	s.rule("=", 50)
	s.log.Info("CONVERSATION FLOW:")
	s.rule("=", 50)
}

// MessageDetail describes one message of the conversation flow.
type MessageDetail struct {
	Kind       string
	Content    string
	ToolCalls  []string
	ToolName   string
	ToolResult string
}

func (s *StepLogger) Message(index int, m MessageDetail) {
	s.log.Infof("%d. %s:", index, m.Kind)
	if m.Content != "" {
		s.log.Infof("   Content: %s", m.Content)
	}
	if len(m.ToolCalls) > 0 {
		s.log.Info("   Tool Calls:")
		for _, call := range m.ToolCalls {
			s.log.Infof("     - %s", call)
		}
	}
	if m.ToolName != "" {
		s.log.Infof("   Tool: %s", m.ToolName)
		if m.ToolResult != "" {
			s.log.Infof("   Result: %s", m.ToolResult)
		}
	}
}

func (s *StepLogger) FinalAnswer(n int, answer string) {
	s.rule("=", 50)
	s.log.Infof("FINAL ANSWER #%d:", n)
	s.rule("=", 50)
	s.log.Info(answer)
	s.rule("=", 50)
}

func (s *StepLogger) QuerySeparation() {
	for range 3 {
		s.rule("=", 80)
	}
}

func (s *StepLogger) SessionEnd(reason string) {
	switch reason {
	case "user":
		s.log.Info("Chat session ended by user")
	case "interrupt":
		s.log.Info("Chat session interrupted by user")
	default:
		s.log.Infof("Chat session ended: %s", reason)
	}
}

func (s *StepLogger) ChatError(err error) {
	s.log.Errorf("Error in chat loop: %v", err)
}

func (s *StepLogger) rule(char string, n int) {
	s.log.Info(strings.Repeat(char, n))
}

package assess

// triagePrompt pins the model to a conservative, language-invariant
// contract: summarize, classify LOW/MODERATE/HIGH, advise. The strict-JSON
// instruction lets the adapter decode the reply without heuristics.
const triagePrompt = `You are an AI-assisted medical triage system for rural India.

Your tasks:
1. Summarize symptoms clearly
2. Assign risk: LOW, MODERATE, or HIGH
3. Give conservative advice

Rules:
- Do NOT diagnose diseases
- If unsure, choose MODERATE
- Safety first

Return STRICT JSON only:
{
  "risk": "",
  "doctor_summary": "",
  "advice": ""
}`

// Disclaimer accompanies every assessment shown to a user.
const Disclaimer = "AI-assisted triage. Not a substitute for professional medical advice."

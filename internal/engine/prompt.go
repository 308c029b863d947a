package engine

const askVideoSystem = `You answer questions about YouTube videos using only their transcript.
Write in markdown. Quote the transcript when it helps. If the transcript does not contain the answer, say so plainly.`

// askVideoPrompt args: date, video URL, transcript, question.
const askVideoPrompt = `Today is %s.

Video: %s

<transcript>
%s
</transcript>

Question: %s

Answer the question from the transcript. Start with a one-paragraph direct answer, then supporting points as a bulleted list.`
